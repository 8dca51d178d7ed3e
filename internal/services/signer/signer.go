package signer

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/mcoot/hoyorecord/internal/dependencies/clock"
	"github.com/mcoot/hoyorecord/internal/dependencies/random"
	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/salt"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Family selects the DS algorithm variant
type Family string

const (
	FamilyOverseas  Family = "os"
	FamilyDomestic  Family = "cn"
	FamilyPassport  Family = "passport"
	FamilyChallenge Family = "challenge"
)

// FamilyForRealm returns the signing family used for game-record calls in a realm
func FamilyForRealm(realm model.Realm) (Family, error) {
	switch realm {
	case model.RealmOverseas:
		return FamilyOverseas, nil
	case model.RealmDomestic:
		return FamilyDomestic, nil
	}
	return "", fmt.Errorf("%w: %q", model.ErrUnsupportedRegion, realm)
}

// ParseFamily accepts a family name as used on the command line
func ParseFamily(s string) (Family, error) {
	switch f := Family(s); f {
	case FamilyOverseas, FamilyDomestic, FamilyPassport, FamilyChallenge:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", model.ErrUnsupportedRegion, s)
}

// defaultPurpose is the salt each family signs with when the caller passes PurposeDefault
var defaultPurpose = map[Family]salt.Purpose{
	FamilyOverseas:  salt.PurposeOverseas,
	FamilyDomestic:  salt.PurposeDomestic,
	FamilyPassport:  salt.PurposePassport,
	FamilyChallenge: salt.PurposeOverseas,
}

// Signer produces DS tokens. It holds no mutable state of its own and is
// safe for concurrent use as long as its clock and random source are.
type Signer struct {
	salts  *salt.Table
	clock  clock.Clock
	random random.Random
}

// New creates a new Signer
func New(salts *salt.Table, clk clock.Clock, rnd random.Random) *Signer {
	return &Signer{
		salts:  salts,
		clock:  clk,
		random: rnd,
	}
}

// ResolvePurpose returns the salt purpose a family actually signs with,
// replacing PurposeDefault with the family's own salt
func ResolvePurpose(family Family, purpose salt.Purpose) (salt.Purpose, error) {
	def, ok := defaultPurpose[family]
	if !ok {
		return purpose, fmt.Errorf("%w: %q", model.ErrUnsupportedRegion, family)
	}
	if purpose == salt.PurposeDefault {
		return def, nil
	}
	return purpose, nil
}

// Sign computes a fresh signature. body is only read by the domestic and
// passport families; query only by the domestic family.
func (s *Signer) Sign(family Family, purpose salt.Purpose, body any, query map[string]string) (model.Signature, error) {
	purpose, err := ResolvePurpose(family, purpose)
	if err != nil {
		return model.Signature{}, err
	}
	secret, err := s.salts.Salt(purpose)
	if err != nil {
		return model.Signature{}, err
	}

	t := clock.Unix(s.clock)
	var r, input string

	switch family {
	case FamilyOverseas:
		r = s.random.String(6, letters)
		input = fmt.Sprintf("salt=%s&t=%d&r=%s", secret, t, r)

	case FamilyDomestic:
		b, err := serializeBody(body, true)
		if err != nil {
			return model.Signature{}, err
		}
		r = strconv.Itoa(100001 + s.random.Intn(100000))
		input = fmt.Sprintf("salt=%s&t=%d&r=%s&b=%s&q=%s", secret, t, r, b, joinQuery(query))

	case FamilyPassport:
		b, err := serializeBody(body, false)
		if err != nil {
			return model.Signature{}, err
		}
		r = s.random.Sample(6, letters)
		input = fmt.Sprintf("salt=%s&t=%d&r=%s&b=%s&q=", secret, t, r, b)

	case FamilyChallenge:
		r = strconv.Itoa(100000 + s.random.Intn(100001))
		input = fmt.Sprintf("salt=%s&t=%d&r=%s&b=&q=is_high=false", secret, t, r)
	}

	return model.Signature{
		Timestamp: t,
		Random:    r,
		Hash:      digest(input),
	}, nil
}

func digest(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}

// serializeBody renders body byte-for-byte as the platform's reference
// signer does: ", " and ": " separators, non-ASCII escaped as \uXXXX and
// no HTML escaping. Pre-encoded bodies ([]byte or json.RawMessage) are
// re-spaced but keep their key order. A nil body is "null". With dropEmpty
// set, falsy values ({}, [], "", null, false, 0) collapse to "".
func serializeBody(body any, dropEmpty bool) (string, error) {
	var raw []byte
	switch v := body.(type) {
	case nil:
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		encoded, err := json.MarshalNoEscape(body)
		if err != nil {
			return "", fmt.Errorf("serializing signed body: %w", err)
		}
		raw = encoded
	}
	if len(raw) == 0 {
		raw = []byte("null")
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", fmt.Errorf("serializing signed body: %w", err)
	}

	if dropEmpty {
		switch buf.String() {
		case "{}", "[]", `""`, "null", "false", "0":
			return "", nil
		}
	}
	return respace(buf.Bytes()), nil
}

// respace rewrites compact JSON with spaced separators and ASCII-only strings
func respace(compact []byte) string {
	var sb strings.Builder
	sb.Grow(len(compact) + len(compact)/4)

	inString := false
	for i := 0; i < len(compact); {
		c := compact[i]
		if !inString {
			sb.WriteByte(c)
			switch c {
			case '"':
				inString = true
			case ',', ':':
				sb.WriteByte(' ')
			}
			i++
			continue
		}

		switch {
		case c == '\\' && i+1 < len(compact) && compact[i+1] == 'u' && i+6 <= len(compact):
			seq := string(compact[i : i+6])
			if lit, ok := htmlEscapes[strings.ToLower(seq)]; ok {
				sb.WriteByte(lit)
			} else {
				sb.WriteString(strings.ToLower(seq))
			}
			i += 6
		case c == '\\' && i+1 < len(compact):
			sb.Write(compact[i : i+2])
			i += 2
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRune(compact[i:])
			if r > 0xFFFF {
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(&sb, `\u%04x\u%04x`, hi, lo)
			} else {
				fmt.Fprintf(&sb, `\u%04x`, r)
			}
			i += size
		default:
			if c == '"' {
				inString = false
			}
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

var htmlEscapes = map[string]byte{
	`\u003c`: '<',
	`\u003e`: '>',
	`\u0026`: '&',
}

func joinQuery(query map[string]string) string {
	if len(query) == 0 {
		return ""
	}
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + query[k]
	}
	return strings.Join(pairs, "&")
}
