package account

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/mcoot/hoyorecord/internal/dependencies/clock"
	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/salt"
)

// DefaultCardURL is the cross-game record card summary endpoint
const DefaultCardURL = "https://bbs-api-os.hoyolab.com/game_record/card/wapi/getGameRecordCard"

// Getter sends one signed GET request. *dispatch.Dispatcher satisfies it.
type Getter interface {
	Get(ctx context.Context, endpoint string, params map[string]string, realm model.Realm, purpose salt.Purpose) (json.RawMessage, error)
}

// Resolver maps a platform account to its per-game identities
type Resolver struct {
	getter  Getter
	clock   clock.Clock
	logger  *slog.Logger
	cardURL string
}

// NewResolver creates a Resolver. An empty cardURL selects DefaultCardURL.
func NewResolver(getter Getter, clk clock.Clock, logger *slog.Logger, cardURL string) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cardURL == "" {
		cardURL = DefaultCardURL
	}
	return &Resolver{
		getter:  getter,
		clock:   clk,
		logger:  logger,
		cardURL: cardURL,
	}
}

type cardResponse struct {
	Retcode int    `json:"retcode"`
	Message string `json:"message"`
	Data    *struct {
		List *[]json.RawMessage `json:"list"`
	} `json:"data"`
}

type cardEntry struct {
	GameID     int             `json:"game_id"`
	GameRoleID json.RawMessage `json:"game_role_id"`
	Region     string          `json:"region"`
	Nickname   string          `json:"nickname"`
	Level      int             `json:"level"`
}

// Resolve fetches the account's record card and builds its AccountRecord.
// Entries for unknown games are ignored, malformed entries are skipped and
// a later entry for the same game replaces an earlier one. Any failure to
// obtain the list is reported as model.ErrAccountNotFound.
func (r *Resolver) Resolve(ctx context.Context, accountID int64) (*model.AccountRecord, error) {
	params := map[string]string{"uid": strconv.FormatInt(accountID, 10)}

	raw, err := r.getter.Get(ctx, r.cardURL, params, model.RealmOverseas, salt.PurposeDefault)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrAccountNotFound, err)
	}

	var resp cardResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding record card: %w", model.ErrAccountNotFound, err)
	}
	if resp.Data == nil || resp.Data.List == nil {
		return nil, fmt.Errorf("%w: record card has no list (retcode %d: %s)",
			model.ErrAccountNotFound, resp.Retcode, resp.Message)
	}

	record := model.NewAccountRecord(accountID, r.clock.Now())
	for i, rawEntry := range *resp.Data.List {
		var entry cardEntry
		if err := json.Unmarshal(rawEntry, &entry); err != nil {
			r.logger.Warn("skipping malformed record card entry", "account_id", accountID, "index", i, "error", err)
			continue
		}

		game, ok := model.GameFromCardID(entry.GameID)
		if !ok {
			continue
		}

		uid, err := parseRoleID(entry.GameRoleID)
		if err != nil {
			r.logger.Warn("skipping record card entry", "account_id", accountID, "game", game, "error", err)
			continue
		}

		record.Identities[game] = model.GameIdentity{
			Game:     game,
			UID:      uid,
			Region:   model.Region(entry.Region),
			Nickname: entry.Nickname,
			Level:    entry.Level,
		}
	}

	r.logger.Info("account resolved", "account_id", accountID, "games", record.Games())
	return record, nil
}

// parseRoleID accepts game_role_id as either a JSON string or a JSON number
func parseRoleID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("missing game_role_id")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("game_role_id: %w", err)
		}
		if s == "" {
			return "", fmt.Errorf("empty game_role_id")
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("game_role_id: %w", err)
	}
	return n.String(), nil
}
