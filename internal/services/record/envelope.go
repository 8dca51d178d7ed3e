package record

import (
	"fmt"

	"github.com/goccy/go-json"
)

// challengeRetcodes are the retcodes the platform uses to demand a captcha
var challengeRetcodes = map[int]struct{}{
	10035: {},
	5003:  {},
	10041: {},
	1034:  {},
}

// Envelope is the wrapper every platform response is sent in
type Envelope struct {
	Retcode int             `json:"retcode"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RetcodeError is a well-formed response that reports failure
type RetcodeError struct {
	Retcode int
	Message string
}

func (e *RetcodeError) Error() string {
	return fmt.Sprintf("platform returned retcode %d: %s", e.Retcode, e.Message)
}

// NeedsChallenge returns true if the request was blocked pending a captcha
func (e *RetcodeError) NeedsChallenge() bool {
	_, ok := challengeRetcodes[e.Retcode]
	return ok
}

// ParseEnvelope decodes raw and returns a *RetcodeError for a non-zero retcode
func ParseEnvelope(raw json.RawMessage) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding response envelope: %w", err)
	}
	if env.Retcode != 0 {
		return &env, &RetcodeError{Retcode: env.Retcode, Message: env.Message}
	}
	return &env, nil
}

func decodeData[T any](raw json.RawMessage) (*T, error) {
	env, err := ParseEnvelope(raw)
	if err != nil {
		return nil, err
	}
	var out T
	if len(env.Data) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("decoding response data: %w", err)
	}
	return &out, nil
}
