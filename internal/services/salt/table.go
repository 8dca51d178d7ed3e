package salt

import (
	"errors"
	"fmt"

	"github.com/mcoot/hoyorecord/internal/model"
)

// ErrUnknownPurpose is returned when a salt is requested for a purpose the table does not hold
var ErrUnknownPurpose = errors.New("unknown salt purpose")

// Purpose names which secret salt a signature is computed with
type Purpose int

const (
	// PurposeDefault defers to the signing family's own salt
	PurposeDefault Purpose = iota
	PurposeOverseas
	PurposeDomestic
	PurposeAppLogin
	PurposeDomesticSignIn
	PurposePassport
)

var purposeNames = map[Purpose]string{
	PurposeDefault:        "default",
	PurposeOverseas:       "os",
	PurposeDomestic:       "cn",
	PurposeAppLogin:       "app_login",
	PurposeDomesticSignIn: "cn_signin",
	PurposePassport:       "cn_passport",
}

func (p Purpose) String() string {
	if name, ok := purposeNames[p]; ok {
		return name
	}
	return fmt.Sprintf("purpose(%d)", int(p))
}

// ParsePurpose maps a salt name such as "cn_signin" back to its Purpose
func ParsePurpose(name string) (Purpose, error) {
	for p, n := range purposeNames {
		if n == name {
			return p, nil
		}
	}
	return PurposeDefault, fmt.Errorf("%w: %q", ErrUnknownPurpose, name)
}

type gameRealm struct {
	game  model.Game
	realm model.Realm
}

// Table holds the platform's published signing constants. It is built once
// and never mutated, so it is safe to share between goroutines.
type Table struct {
	salts      map[Purpose]string
	appKeys    map[gameRealm]string
	appIDs     map[gameRealm]int
	gameBizs   map[gameRealm]string
	recordKeys map[model.Game]string
}

// Default returns the table of constants the platform currently uses
func Default() *Table {
	return &Table{
		salts: map[Purpose]string{
			PurposeOverseas:       "6s25p5ox5y14umn1p61aqyyvbvvl3lrt",
			PurposeDomestic:       "xV8v4Qu54lUKrEYFZkJhB8cuOh9Asafs",
			PurposeAppLogin:       "IZPgfb0dRPtBeLuFkdDznSZ6f4wWt6y2",
			PurposeDomesticSignIn: "LyD1rXqMv2GJhnwdvCBjFOKGiKuLY3aO",
			PurposePassport:       "JwYDpKvLj6MrMqqYU6jTKF17KNO2PXoS",
		},
		appKeys: map[gameRealm]string{
			{model.GameGenshin, model.RealmOverseas}:  "6a4c78fe0356ba4673b8071127b28123",
			{model.GameGenshin, model.RealmDomestic}:  "d0d3a7342df2026a70f650b907800111",
			{model.GameStarRail, model.RealmOverseas}: "d74818dabd4182d4fbac7f8df1622648",
			{model.GameStarRail, model.RealmDomestic}: "4650f3a396d34d576c3d65df26415394",
			{model.GameHonkai, model.RealmOverseas}:   "243187699ab762b682a2a2e50ba02285",
			{model.GameHonkai, model.RealmDomestic}:   "0ebc517adb1b62c6b408df153331f9aa",
			{model.GameZenless, model.RealmOverseas}:  "ff0f2776bf515d79d1f8ff1fb98b2a06",
			{model.GameZenless, model.RealmDomestic}:  "4650f3a396d34d576c3d65df26415394",
		},
		appIDs: map[gameRealm]int{
			{model.GameGenshin, model.RealmOverseas}:  4,
			{model.GameGenshin, model.RealmDomestic}:  4,
			{model.GameStarRail, model.RealmOverseas}: 11,
			{model.GameStarRail, model.RealmDomestic}: 8,
			{model.GameHonkai, model.RealmOverseas}:   8,
			{model.GameHonkai, model.RealmDomestic}:   1,
			{model.GameZenless, model.RealmOverseas}:  15,
			{model.GameZenless, model.RealmDomestic}:  12,
		},
		gameBizs: map[gameRealm]string{
			{model.GameGenshin, model.RealmOverseas}:  "hk4e_global",
			{model.GameGenshin, model.RealmDomestic}:  "hk4e_cn",
			{model.GameStarRail, model.RealmOverseas}: "hkrpg_global",
			{model.GameStarRail, model.RealmDomestic}: "hkrpg_cn",
			{model.GameHonkai, model.RealmOverseas}:   "bh3_os",
			{model.GameHonkai, model.RealmDomestic}:   "bh3_cn",
			{model.GameZenless, model.RealmOverseas}:  "nap_global",
			{model.GameZenless, model.RealmDomestic}:  "nap_cn",
		},
		recordKeys: map[model.Game]string{
			model.GameGenshin:  "genshin_game_record",
			model.GameStarRail: "hkrpg_game_record",
			model.GameHonkai:   "bh3_game_record",
			model.GameZenless:  "nap_game_record",
		},
	}
}

// Salt returns the secret for an explicit purpose. PurposeDefault has no
// salt of its own; callers resolve it against a signing family first.
func (t *Table) Salt(p Purpose) (string, error) {
	s, ok := t.salts[p]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPurpose, p)
	}
	return s, nil
}

// AppKey returns the application key for a game in a realm
func (t *Table) AppKey(game model.Game, realm model.Realm) (string, bool) {
	k, ok := t.appKeys[gameRealm{game, realm}]
	return k, ok
}

// AppID returns the numeric application id for a game in a realm
func (t *Table) AppID(game model.Game, realm model.Realm) (int, bool) {
	id, ok := t.appIDs[gameRealm{game, realm}]
	return id, ok
}

// GameBiz returns the game_biz identifier for a game in a realm
func (t *Table) GameBiz(game model.Game, realm model.Realm) (string, bool) {
	b, ok := t.gameBizs[gameRealm{game, realm}]
	return b, ok
}

// RecordKey returns the challenge record key used when a request is gated by a captcha
func (t *Table) RecordKey(game model.Game) (string, bool) {
	k, ok := t.recordKeys[game]
	return k, ok
}
