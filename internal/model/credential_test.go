package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCredentialDropsUnknownKeys(t *testing.T) {
	c := NewCredential(map[string]string{
		"ltuid_v2":   "42",
		"junk":       "ignored",
		"_MHYUUID":   "abc",
		"ltoken_v2":  "tok",
		"mi18nLang":  "en-us",
		"account_id": "legacy",
	})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{CookieLToken, CookieLTUID}, c.Keys())
	_, ok := c.Get("junk")
	assert.False(t, ok)
}

func TestCredentialHeaderUsesAllowListOrder(t *testing.T) {
	c := NewCredential(map[string]string{
		"ltuid_v2":        "1",
		"ltmid_v2":        "2",
		"ltoken_v2":       "3",
		"account_id_v2":   "4",
		"account_mid_v2":  "5",
		"cookie_token_v2": "6",
	})

	assert.Equal(t,
		"cookie_token_v2=6; account_mid_v2=5; account_id_v2=4; ltoken_v2=3; ltmid_v2=2; ltuid_v2=1",
		c.Header())
}

func TestCredentialAccountID(t *testing.T) {
	id, ok := NewCredential(map[string]string{"ltuid_v2": "93112092"}).AccountID()
	assert.True(t, ok)
	assert.Equal(t, int64(93112092), id)

	id, ok = NewCredential(map[string]string{"ltuid_v2": "x", "account_id_v2": "7"}).AccountID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = NewCredential(nil).AccountID()
	assert.False(t, ok)
}
