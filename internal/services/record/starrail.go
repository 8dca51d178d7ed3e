package record

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/mcoot/hoyorecord/internal/model"
)

const starRailPath = "game_record/hkrpg/api/"

// StarRailClient reads Honkai: Star Rail battle chronicle data
type StarRailClient struct {
	Client
}

// NewStarRailClient binds a client to an identity, which may be nil
func NewStarRailClient(identity *model.GameIdentity, getter Getter, baseURL string) *StarRailClient {
	return &StarRailClient{Client: newClient(model.GameStarRail, identity, getter, baseURL)}
}

func (c *StarRailClient) Index(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, starRailPath+"index", nil)
}

// Note returns trailblaze power, reserve and expeditions
func (c *StarRailClient) Note(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, starRailPath+"note", nil)
}

func (c *StarRailClient) ForgottenHall(ctx context.Context, schedule Schedule, all bool) (json.RawMessage, error) {
	return c.challenge(ctx, "challenge", schedule, all)
}

func (c *StarRailClient) PureFiction(ctx context.Context, schedule Schedule, all bool) (json.RawMessage, error) {
	return c.challenge(ctx, "challenge_story", schedule, all)
}

func (c *StarRailClient) ApocalypticShadow(ctx context.Context, schedule Schedule, all bool) (json.RawMessage, error) {
	return c.challenge(ctx, "challenge_boss", schedule, all)
}

func (c *StarRailClient) challenge(ctx context.Context, endpoint string, schedule Schedule, all bool) (json.RawMessage, error) {
	return c.get(ctx, starRailPath+endpoint, map[string]string{
		"schedule_type": schedule.param(),
		"need_all":      needAll(all),
	})
}

// Operations lists the client's operations by name
func (c *StarRailClient) Operations() map[string]OperationFunc {
	return map[string]OperationFunc{
		"index": func(ctx context.Context, _ Options) (json.RawMessage, error) { return c.Index(ctx) },
		"note":  func(ctx context.Context, _ Options) (json.RawMessage, error) { return c.Note(ctx) },
		"forgotten-hall": func(ctx context.Context, o Options) (json.RawMessage, error) {
			return c.ForgottenHall(ctx, o.Schedule, o.NeedAll)
		},
		"pure-fiction": func(ctx context.Context, o Options) (json.RawMessage, error) {
			return c.PureFiction(ctx, o.Schedule, o.NeedAll)
		},
		"apocalyptic-shadow": func(ctx context.Context, o Options) (json.RawMessage, error) {
			return c.ApocalypticShadow(ctx, o.Schedule, o.NeedAll)
		},
	}
}
