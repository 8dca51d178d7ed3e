package record

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/mcoot/hoyorecord/internal/model"
)

const genshinPath = "game_record/genshin/api/"

// GenshinClient reads Genshin Impact battle chronicle data
type GenshinClient struct {
	Client
}

// NewGenshinClient binds a client to an identity, which may be nil
func NewGenshinClient(identity *model.GameIdentity, getter Getter, baseURL string) *GenshinClient {
	return &GenshinClient{Client: newClient(model.GameGenshin, identity, getter, baseURL)}
}

// Index returns the account summary and character list
func (c *GenshinClient) Index(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, genshinPath+"index", map[string]string{"avatar_list_type": "0"})
}

// DailyNote returns resin, commissions and expeditions
func (c *GenshinClient) DailyNote(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, genshinPath+"dailyNote", nil)
}

// SpiralAbyss returns Spiral Abyss results for a rotation
func (c *GenshinClient) SpiralAbyss(ctx context.Context, schedule Schedule) (json.RawMessage, error) {
	return c.get(ctx, genshinPath+"spiralAbyss", map[string]string{"schedule_type": schedule.param()})
}

// Operations lists the client's operations by name
func (c *GenshinClient) Operations() map[string]OperationFunc {
	return map[string]OperationFunc{
		"index": func(ctx context.Context, _ Options) (json.RawMessage, error) { return c.Index(ctx) },
		"note":  func(ctx context.Context, _ Options) (json.RawMessage, error) { return c.DailyNote(ctx) },
		"abyss": func(ctx context.Context, o Options) (json.RawMessage, error) { return c.SpiralAbyss(ctx, o.Schedule) },
	}
}
