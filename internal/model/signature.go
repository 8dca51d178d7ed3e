package model

import "fmt"

// Signature is a single-use DS token. It must be generated immediately
// before the request it authenticates and never reused.
type Signature struct {
	Timestamp int64
	Random    string
	Hash      string
}

// String renders the token as sent in the DS header: "t,r,hash"
func (s Signature) String() string {
	return fmt.Sprintf("%d,%s,%s", s.Timestamp, s.Random, s.Hash)
}
