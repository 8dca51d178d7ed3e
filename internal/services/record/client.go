package record

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/salt"
)

// DefaultBaseURL is the prefix shared by every game-record endpoint
const DefaultBaseURL = "https://sg-public-api.hoyolab.com/event"

// Getter sends one signed GET request. *dispatch.Dispatcher satisfies it.
type Getter interface {
	Get(ctx context.Context, endpoint string, params map[string]string, realm model.Realm, purpose salt.Purpose) (json.RawMessage, error)
}

// Schedule selects which rotation of a periodic challenge to fetch
type Schedule int

const (
	ScheduleCurrent  Schedule = 1
	SchedulePrevious Schedule = 2
)

func (s Schedule) param() string {
	if s == SchedulePrevious {
		return "2"
	}
	return "1"
}

// ParseSchedule accepts "1"/"current" or "2"/"previous". Empty means current.
func ParseSchedule(s string) (Schedule, error) {
	switch strings.ToLower(s) {
	case "", "1", "current":
		return ScheduleCurrent, nil
	case "2", "previous":
		return SchedulePrevious, nil
	}
	return 0, fmt.Errorf("invalid schedule %q", s)
}

// Options carries the per-call extras some operations take
type Options struct {
	Schedule Schedule
	NeedAll  bool
}

// DefaultOptions fetches the current rotation with full floor details
func DefaultOptions() Options {
	return Options{Schedule: ScheduleCurrent, NeedAll: true}
}

// OperationFunc is a record operation bound to one client
type OperationFunc func(ctx context.Context, opts Options) (json.RawMessage, error)

// Client is the shared request builder behind each game's client. It holds
// the identity it was constructed with and never re-resolves it.
type Client struct {
	game     model.Game
	identity *model.GameIdentity
	getter   Getter
	baseURL  string
}

func newClient(game model.Game, identity *model.GameIdentity, getter Getter, baseURL string) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Client{
		game:     game,
		identity: identity,
		getter:   getter,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Game returns the game this client serves
func (c *Client) Game() model.Game {
	return c.game
}

// Identity returns the bound identity, or ErrUnresolvedGameIdentity
func (c *Client) Identity() (model.GameIdentity, error) {
	if c.identity == nil {
		return model.GameIdentity{}, fmt.Errorf("%w: %s", model.ErrUnresolvedGameIdentity, c.game)
	}
	return *c.identity, nil
}

// get sends {server, role_id} plus extras to path
func (c *Client) get(ctx context.Context, path string, extra map[string]string) (json.RawMessage, error) {
	id, err := c.Identity()
	if err != nil {
		return nil, err
	}
	params := map[string]string{
		"server":  id.Region.String(),
		"role_id": id.UID,
	}
	for k, v := range extra {
		params[k] = v
	}
	return c.send(ctx, id, path, params)
}

// getAs sends the identity under custom parameter names
func (c *Client) getAs(ctx context.Context, path, regionKey, uidKey string, extra map[string]string) (json.RawMessage, error) {
	id, err := c.Identity()
	if err != nil {
		return nil, err
	}
	params := map[string]string{
		regionKey: id.Region.String(),
		uidKey:    id.UID,
	}
	for k, v := range extra {
		params[k] = v
	}
	return c.send(ctx, id, path, params)
}

func (c *Client) send(ctx context.Context, id model.GameIdentity, path string, params map[string]string) (json.RawMessage, error) {
	return c.getter.Get(ctx, c.baseURL+"/"+path, params, id.Region.Realm(), salt.PurposeDefault)
}

func needAll(v bool) string {
	return strconv.FormatBool(v)
}
