package model

import (
	"strconv"
	"strings"
)

// Cookie names retained from the raw session string, in header order
const (
	CookieToken  = "cookie_token_v2"
	CookieAccMID = "account_mid_v2"
	CookieAccID  = "account_id_v2"
	CookieLToken = "ltoken_v2"
	CookieLTMID  = "ltmid_v2"
	CookieLTUID  = "ltuid_v2"
)

// CredentialKeys is the cookie allow-list. Header output follows this order.
var CredentialKeys = []string{
	CookieToken,
	CookieAccMID,
	CookieAccID,
	CookieLToken,
	CookieLTMID,
	CookieLTUID,
}

// Credential is the immutable, allow-listed subset of a session's cookies
type Credential struct {
	values map[string]string
}

// NewCredential keeps only allow-listed keys from the given cookies
func NewCredential(cookies map[string]string) Credential {
	values := make(map[string]string, len(CredentialKeys))
	for _, k := range CredentialKeys {
		if v, ok := cookies[k]; ok {
			values[k] = v
		}
	}
	return Credential{values: values}
}

// Get returns the value of a credential field
func (c Credential) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Keys returns the present fields in allow-list order
func (c Credential) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for _, k := range CredentialKeys {
		if _, ok := c.values[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len returns the number of present fields
func (c Credential) Len() int {
	return len(c.values)
}

// IsEmpty returns true if no allow-listed cookie was supplied
func (c Credential) IsEmpty() bool {
	return len(c.values) == 0
}

// Header renders the credential as a Cookie header value
func (c Credential) Header() string {
	var b strings.Builder
	for i, k := range c.Keys() {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(c.values[k])
	}
	return b.String()
}

// AccountID derives the platform account id from ltuid_v2, then account_id_v2
func (c Credential) AccountID() (int64, bool) {
	for _, k := range []string{CookieLTUID, CookieAccID} {
		v, ok := c.values[k]
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err == nil && id > 0 {
			return id, true
		}
	}
	return 0, false
}
