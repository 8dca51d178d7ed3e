package record

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/mcoot/hoyorecord/internal/model"
)

const zenlessPath = "game_record_zzz/api/zzz/"

// ZenlessClient reads Zenless Zone Zero battle chronicle data
type ZenlessClient struct {
	Client
}

// NewZenlessClient binds a client to an identity, which may be nil
func NewZenlessClient(identity *model.GameIdentity, getter Getter, baseURL string) *ZenlessClient {
	return &ZenlessClient{Client: newClient(model.GameZenless, identity, getter, baseURL)}
}

func (c *ZenlessClient) Index(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, zenlessPath+"index", nil)
}

// Note returns battery charge, engagement and scratch card state
func (c *ZenlessClient) Note(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, zenlessPath+"note", nil)
}

// DeadlyAssault is the one endpoint that names its identity parameters region/uid
func (c *ZenlessClient) DeadlyAssault(ctx context.Context, schedule Schedule) (json.RawMessage, error) {
	return c.getAs(ctx, zenlessPath+"mem_detail", "region", "uid", map[string]string{"schedule_type": schedule.param()})
}

// ShiyuDefense returns Shiyu Defense results for a rotation
func (c *ZenlessClient) ShiyuDefense(ctx context.Context, schedule Schedule) (json.RawMessage, error) {
	return c.get(ctx, zenlessPath+"challenge", map[string]string{"schedule_type": schedule.param()})
}

func (c *ZenlessClient) HollowZero(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, zenlessPath+"abyss_abstract", nil)
}

// Operations lists the client's operations by name
func (c *ZenlessClient) Operations() map[string]OperationFunc {
	return map[string]OperationFunc{
		"index": func(ctx context.Context, _ Options) (json.RawMessage, error) { return c.Index(ctx) },
		"note":  func(ctx context.Context, _ Options) (json.RawMessage, error) { return c.Note(ctx) },
		"deadly-assault": func(ctx context.Context, o Options) (json.RawMessage, error) {
			return c.DeadlyAssault(ctx, o.Schedule)
		},
		"shiyu": func(ctx context.Context, o Options) (json.RawMessage, error) {
			return c.ShiyuDefense(ctx, o.Schedule)
		},
		"hollow-zero": func(ctx context.Context, _ Options) (json.RawMessage, error) { return c.HollowZero(ctx) },
	}
}
