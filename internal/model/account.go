package model

import (
	"fmt"
	"time"
)

// GameIdentity is an account's game-scoped id and server region for one title
type GameIdentity struct {
	Game     Game   `json:"game"`
	UID      string `json:"uid"`
	Region   Region `json:"region"`
	Nickname string `json:"nickname,omitempty"`
	Level    int    `json:"level,omitempty"`
}

// AccountRecord is one platform account's cross-game summary. It is built
// once per resolution and is read-only afterwards.
type AccountRecord struct {
	AccountID  int64                 `json:"account_id"`
	Identities map[Game]GameIdentity `json:"identities"`
	ResolvedAt time.Time             `json:"resolved_at"`
}

// NewAccountRecord creates an empty record for the given account
func NewAccountRecord(accountID int64, resolvedAt time.Time) *AccountRecord {
	return &AccountRecord{
		AccountID:  accountID,
		Identities: make(map[Game]GameIdentity),
		ResolvedAt: resolvedAt,
	}
}

// Identity returns the identity for a game, or ErrUnresolvedGameIdentity
func (r *AccountRecord) Identity(game Game) (GameIdentity, error) {
	if r != nil {
		if id, ok := r.Identities[game]; ok {
			return id, nil
		}
	}
	return GameIdentity{}, fmt.Errorf("%w: %s", ErrUnresolvedGameIdentity, game)
}

// Has returns true if the account has an identity for the game
func (r *AccountRecord) Has(game Game) bool {
	_, err := r.Identity(game)
	return err == nil
}

// Games returns the resolved games in record card id order
func (r *AccountRecord) Games() []Game {
	games := make([]Game, 0, len(r.Identities))
	for _, g := range AllGames() {
		if _, ok := r.Identities[g]; ok {
			games = append(games, g)
		}
	}
	return games
}

// Clone returns a deep copy, so a cached record cannot be changed through a caller's pointer
func (r *AccountRecord) Clone() *AccountRecord {
	if r == nil {
		return nil
	}
	c := NewAccountRecord(r.AccountID, r.ResolvedAt)
	for g, id := range r.Identities {
		c.Identities[g] = id
	}
	return c
}
