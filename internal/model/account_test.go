package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRecordIdentity(t *testing.T) {
	rec := NewAccountRecord(42, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	rec.Identities[GameZenless] = GameIdentity{Game: GameZenless, UID: "1000278659", Region: "prod_gf_us"}

	id, err := rec.Identity(GameZenless)
	require.NoError(t, err)
	assert.Equal(t, "1000278659", id.UID)

	_, err = rec.Identity(GameGenshin)
	assert.ErrorIs(t, err, ErrUnresolvedGameIdentity)
	assert.False(t, rec.Has(GameGenshin))
}

func TestNilAccountRecordIsUnresolved(t *testing.T) {
	var rec *AccountRecord
	_, err := rec.Identity(GameStarRail)
	assert.ErrorIs(t, err, ErrUnresolvedGameIdentity)
}

func TestAccountRecordGamesOrdered(t *testing.T) {
	rec := NewAccountRecord(1, time.Time{})
	rec.Identities[GameZenless] = GameIdentity{Game: GameZenless}
	rec.Identities[GameGenshin] = GameIdentity{Game: GameGenshin}
	rec.Identities[GameStarRail] = GameIdentity{Game: GameStarRail}

	assert.Equal(t, []Game{GameGenshin, GameStarRail, GameZenless}, rec.Games())
}

func TestRequestErrorUnwraps(t *testing.T) {
	cause := assert.AnError
	err := &RequestError{Kind: KindTransport, Endpoint: "https://example.test", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "transport")

	status := &RequestError{Kind: KindStatus, Endpoint: "https://example.test", StatusCode: 503}
	assert.Contains(t, status.Error(), "HTTP 503")
	assert.False(t, status.IsTimeout())
}
