package session

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/record"
	"github.com/mcoot/hoyorecord/internal/services/salt"
)

type recordingGetter struct {
	endpoints []string
	realms    []model.Realm
}

func (g *recordingGetter) Get(ctx context.Context, endpoint string, params map[string]string, realm model.Realm, purpose salt.Purpose) (json.RawMessage, error) {
	g.endpoints = append(g.endpoints, endpoint)
	g.realms = append(g.realms, realm)
	return json.RawMessage(`{"retcode":0}`), nil
}

type SessionSuite struct {
	suite.Suite
	getter  *recordingGetter
	record  *model.AccountRecord
	session *Session
	ctx     context.Context
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.getter = &recordingGetter{}
	s.record = model.NewAccountRecord(42, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s.record.Identities[model.GameStarRail] = model.GameIdentity{Game: model.GameStarRail, UID: "800000001", Region: "prod_gf_sg"}
	s.record.Identities[model.GameZenless] = model.GameIdentity{Game: model.GameZenless, UID: "1300000001", Region: "prod_gf_us"}
	s.session = New(s.record, s.getter, "https://records.test/event")
	s.ctx = context.Background()
}

func (s *SessionSuite) TestClientsCarryIdentities() {
	id, err := s.session.StarRail.Identity()
	s.Require().NoError(err)
	s.Equal("800000001", id.UID)

	_, err = s.session.Genshin.Identity()
	s.ErrorIs(err, model.ErrUnresolvedGameIdentity)
}

func (s *SessionSuite) TestUnlinkedGameFailsWithoutRequest() {
	_, err := s.session.Genshin.Index(s.ctx)
	s.ErrorIs(err, model.ErrUnresolvedGameIdentity)
	s.Empty(s.getter.endpoints)
}

func (s *SessionSuite) TestEachClientUsesItsOwnRealm() {
	_, err := s.session.StarRail.Note(s.ctx)
	s.Require().NoError(err)
	_, err = s.session.Zenless.Note(s.ctx)
	s.Require().NoError(err)

	s.Equal([]model.Realm{model.RealmDomestic, model.RealmOverseas}, s.getter.realms)
}

func (s *SessionSuite) TestOperationLookup() {
	op, err := s.session.Operation(model.GameZenless, "hollow-zero")
	s.Require().NoError(err)

	_, err = op(s.ctx, record.DefaultOptions())
	s.Require().NoError(err)
	s.Equal([]string{"https://records.test/event/game_record_zzz/api/zzz/abyss_abstract"}, s.getter.endpoints)
}

func (s *SessionSuite) TestUnknownOperation() {
	_, err := s.session.Operation(model.GameZenless, "spiral")
	s.ErrorIs(err, ErrUnknownOperation)

	_, err = s.session.Operation(model.GameHonkai, "index")
	s.ErrorIs(err, ErrUnknownOperation)
}

func (s *SessionSuite) TestOperationNames() {
	names := s.session.OperationNames()
	s.Equal([]string{"abyss", "index", "note"}, names[model.GameGenshin])
	s.Len(names, 3)
}

func (s *SessionSuite) TestRecord() {
	s.Same(s.record, s.session.Record())
}
