package credential

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/hoyorecord/internal/model"
)

// Store holds the session cookies for one platform account. Readers always
// see a whole credential: SetCookies swaps it in one step.
type Store struct {
	logger *slog.Logger

	mu         sync.RWMutex
	credential model.Credential
}

// New creates an empty Store
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Store{
		logger:     logger,
		credential: model.NewCredential(nil),
	}
}

// NewFromCookies creates a Store and loads raw into it
func NewFromCookies(raw string, logger *slog.Logger) *Store {
	s := New(logger)
	s.SetCookies(raw)
	return s
}

// SetCookies parses a raw "k=v; k=v" cookie string and replaces the held
// credential with its allow-listed subset. It returns the number of
// malformed segments that were skipped.
func (s *Store) SetCookies(raw string) int {
	cookies, dropped := parse(raw)
	for _, seg := range dropped {
		s.logger.Debug("skipping cookie segment",
			"error", model.ErrMalformedCookieSegment,
			"length", len(seg),
		)
	}

	cred := model.NewCredential(cookies)

	s.mu.Lock()
	s.credential = cred
	s.mu.Unlock()

	s.logger.Debug("credential replaced", "fields", cred.Keys())
	return len(dropped)
}

// Essential returns the allow-listed credential
func (s *Store) Essential() model.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// HeaderValue renders the credential for the Cookie header
func (s *Store) HeaderValue() string {
	return s.Essential().Header()
}

// parse splits raw on ";" and each segment on its first "=". Segments
// without "=" or with an empty key are returned as dropped. Values are
// not logged since they are secrets.
func parse(raw string) (map[string]string, []string) {
	cookies := make(map[string]string)
	var dropped []string

	for _, seg := range strings.Split(raw, ";") {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		key, value, ok := strings.Cut(seg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			dropped = append(dropped, seg)
			continue
		}
		cookies[key] = strings.TrimSpace(value)
	}
	return cookies, dropped
}
