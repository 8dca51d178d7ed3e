package response

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/mcoot/hoyorecord/internal/model"
)

// Identity is one linked game in API responses
type Identity struct {
	Game     string `json:"game"`
	UID      string `json:"uid"`
	Region   string `json:"region"`
	Realm    string `json:"realm"`
	Nickname string `json:"nickname,omitempty"`
	Level    int    `json:"level,omitempty"`
}

// Account is the response for the account endpoint
type Account struct {
	AccountID  int64      `json:"account_id"`
	ResolvedAt time.Time  `json:"resolved_at"`
	Games      []Identity `json:"games"`
}

// AccountFromModel converts a model.AccountRecord, listing games in card order
func AccountFromModel(r *model.AccountRecord) Account {
	games := r.Games()
	out := Account{
		AccountID:  r.AccountID,
		ResolvedAt: r.ResolvedAt,
		Games:      make([]Identity, 0, len(games)),
	}
	for _, g := range games {
		id := r.Identities[g]
		out.Games = append(out.Games, Identity{
			Game:     string(id.Game),
			UID:      id.UID,
			Region:   id.Region.String(),
			Realm:    string(id.Region.Realm()),
			Nickname: id.Nickname,
			Level:    id.Level,
		})
	}
	return out
}

// Operation is the response for a game record operation
type Operation struct {
	Game      string          `json:"game"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
}

// Operations lists the operation names available per game
type Operations struct {
	Games map[string][]string `json:"games"`
}

// Health is the response for the health endpoint
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
