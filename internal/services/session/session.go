package session

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/record"
)

// ErrUnknownOperation is returned for a game or operation name with no client behind it
var ErrUnknownOperation = errors.New("unknown operation")

// Session binds one resolved account to a client per game. It is built
// once from an AccountRecord and is read-only afterwards.
type Session struct {
	record *model.AccountRecord

	Genshin  *record.GenshinClient
	StarRail *record.StarRailClient
	Zenless  *record.ZenlessClient

	operations map[model.Game]map[string]record.OperationFunc
}

// New builds the per-game clients. Games missing from rec get a client
// whose every operation fails with model.ErrUnresolvedGameIdentity.
func New(rec *model.AccountRecord, getter record.Getter, baseURL string) *Session {
	s := &Session{
		record:   rec,
		Genshin:  record.NewGenshinClient(identityFor(rec, model.GameGenshin), getter, baseURL),
		StarRail: record.NewStarRailClient(identityFor(rec, model.GameStarRail), getter, baseURL),
		Zenless:  record.NewZenlessClient(identityFor(rec, model.GameZenless), getter, baseURL),
	}
	s.operations = map[model.Game]map[string]record.OperationFunc{
		model.GameGenshin:  s.Genshin.Operations(),
		model.GameStarRail: s.StarRail.Operations(),
		model.GameZenless:  s.Zenless.Operations(),
	}
	return s
}

func identityFor(rec *model.AccountRecord, game model.Game) *model.GameIdentity {
	id, err := rec.Identity(game)
	if err != nil {
		return nil
	}
	return &id
}

// Record returns the account record the session was built from
func (s *Session) Record() *model.AccountRecord {
	return s.record
}

// Operation looks up an operation by game and name
func (s *Session) Operation(game model.Game, name string) (record.OperationFunc, error) {
	ops, ok := s.operations[game]
	if !ok {
		return nil, fmt.Errorf("%w: no client for game %s", ErrUnknownOperation, game)
	}
	op, ok := ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no operation %q", ErrUnknownOperation, game, name)
	}
	return op, nil
}

// OperationNames lists the sorted operation names per game
func (s *Session) OperationNames() map[model.Game][]string {
	out := make(map[model.Game][]string, len(s.operations))
	for game, ops := range s.operations {
		names := make([]string, 0, len(ops))
		for name := range ops {
			names = append(names, name)
		}
		sort.Strings(names)
		out[game] = names
	}
	return out
}
