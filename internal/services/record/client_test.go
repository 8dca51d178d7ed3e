package record

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/salt"
)

const testBase = "https://records.test/event"

type getCall struct {
	endpoint string
	params   map[string]string
	realm    model.Realm
	purpose  salt.Purpose
}

type fakeGetter struct {
	body  string
	err   error
	calls []getCall
}

func (g *fakeGetter) Get(ctx context.Context, endpoint string, params map[string]string, realm model.Realm, purpose salt.Purpose) (json.RawMessage, error) {
	g.calls = append(g.calls, getCall{endpoint, params, realm, purpose})
	if g.err != nil {
		return nil, g.err
	}
	return json.RawMessage(g.body), nil
}

func (g *fakeGetter) last() getCall {
	return g.calls[len(g.calls)-1]
}

type ClientSuite struct {
	suite.Suite
	getter *fakeGetter
	ctx    context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.getter = &fakeGetter{body: `{"retcode":0,"message":"OK","data":{"stats":{}}}`}
	s.ctx = context.Background()
}

func identity(game model.Game, uid string, region model.Region) *model.GameIdentity {
	return &model.GameIdentity{Game: game, UID: uid, Region: region}
}

// Genshin

func (s *ClientSuite) TestGenshinIndex() {
	c := NewGenshinClient(identity(model.GameGenshin, "600000001", "os_asia"), s.getter, testBase)

	body, err := c.Index(s.ctx)
	s.Require().NoError(err)

	s.Equal(s.getter.body, string(body))
	call := s.getter.last()
	s.Equal(testBase+"/game_record/genshin/api/index", call.endpoint)
	s.Equal(map[string]string{"server": "os_asia", "role_id": "600000001", "avatar_list_type": "0"}, call.params)
	s.Equal(model.RealmOverseas, call.realm)
	s.Equal(salt.PurposeDefault, call.purpose)
}

func (s *ClientSuite) TestGenshinSpiralAbyssPrevious() {
	c := NewGenshinClient(identity(model.GameGenshin, "1", "os_usa"), s.getter, testBase)

	_, err := c.SpiralAbyss(s.ctx, SchedulePrevious)
	s.Require().NoError(err)

	call := s.getter.last()
	s.Equal(testBase+"/game_record/genshin/api/spiralAbyss", call.endpoint)
	s.Equal("2", call.params["schedule_type"])
}

func (s *ClientSuite) TestGenshinDailyNote() {
	c := NewGenshinClient(identity(model.GameGenshin, "1", "os_usa"), s.getter, testBase)

	_, err := c.DailyNote(s.ctx)
	s.Require().NoError(err)
	s.Equal(testBase+"/game_record/genshin/api/dailyNote", s.getter.last().endpoint)
}

// Realm classification

func (s *ClientSuite) TestCrossRealmShardSignsDomestic() {
	c := NewStarRailClient(identity(model.GameStarRail, "800000001", "prod_gf_sg"), s.getter, testBase)

	_, err := c.Index(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.RealmDomestic, s.getter.last().realm)
}

func (s *ClientSuite) TestOverseasRegionSignsOverseas() {
	c := NewStarRailClient(identity(model.GameStarRail, "800000001", "prod_official_usa"), s.getter, testBase)

	_, err := c.Index(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.RealmOverseas, s.getter.last().realm)
}

// Star Rail

func (s *ClientSuite) TestStarRailChallenges() {
	c := NewStarRailClient(identity(model.GameStarRail, "8", "prod_official_eur"), s.getter, testBase)

	cases := []struct {
		call     func() (json.RawMessage, error)
		endpoint string
		needAll  string
	}{
		{func() (json.RawMessage, error) { return c.ForgottenHall(s.ctx, ScheduleCurrent, true) }, "challenge", "true"},
		{func() (json.RawMessage, error) { return c.PureFiction(s.ctx, ScheduleCurrent, false) }, "challenge_story", "false"},
		{func() (json.RawMessage, error) { return c.ApocalypticShadow(s.ctx, SchedulePrevious, true) }, "challenge_boss", "true"},
	}
	for _, tc := range cases {
		_, err := tc.call()
		s.Require().NoError(err)

		call := s.getter.last()
		s.Equal(testBase+"/game_record/hkrpg/api/"+tc.endpoint, call.endpoint)
		s.Equal(tc.needAll, call.params["need_all"])
		s.Equal("prod_official_eur", call.params["server"])
		s.Equal("8", call.params["role_id"])
	}
	s.Equal("2", s.getter.last().params["schedule_type"])
}

func (s *ClientSuite) TestStarRailNote() {
	c := NewStarRailClient(identity(model.GameStarRail, "8", "prod_official_usa"), s.getter, testBase)

	_, err := c.Note(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[string]string{"server": "prod_official_usa", "role_id": "8"}, s.getter.last().params)
}

// Zenless

func (s *ClientSuite) TestZenlessDeadlyAssaultUsesRegionAndUID() {
	c := NewZenlessClient(identity(model.GameZenless, "1300000001", "prod_gf_jp"), s.getter, testBase)

	_, err := c.DeadlyAssault(s.ctx, ScheduleCurrent)
	s.Require().NoError(err)

	call := s.getter.last()
	s.Equal(testBase+"/game_record_zzz/api/zzz/mem_detail", call.endpoint)
	s.Equal(map[string]string{"region": "prod_gf_jp", "uid": "1300000001", "schedule_type": "1"}, call.params)
}

func (s *ClientSuite) TestZenlessEndpoints() {
	c := NewZenlessClient(identity(model.GameZenless, "1", "prod_gf_us"), s.getter, testBase)

	_, _ = c.Index(s.ctx)
	_, _ = c.Note(s.ctx)
	_, _ = c.ShiyuDefense(s.ctx, ScheduleCurrent)
	_, _ = c.HollowZero(s.ctx)

	var endpoints []string
	for _, call := range s.getter.calls {
		endpoints = append(endpoints, call.endpoint)
	}
	s.Equal([]string{
		testBase + "/game_record_zzz/api/zzz/index",
		testBase + "/game_record_zzz/api/zzz/note",
		testBase + "/game_record_zzz/api/zzz/challenge",
		testBase + "/game_record_zzz/api/zzz/abyss_abstract",
	}, endpoints)
}

// Failures

func (s *ClientSuite) TestUnresolvedIdentitySendsNothing() {
	c := NewZenlessClient(nil, s.getter, testBase)

	_, err := c.Note(s.ctx)
	s.ErrorIs(err, model.ErrUnresolvedGameIdentity)

	_, err = c.DeadlyAssault(s.ctx, ScheduleCurrent)
	s.ErrorIs(err, model.ErrUnresolvedGameIdentity)
	s.Empty(s.getter.calls)
}

func (s *ClientSuite) TestRequestErrorPassesThrough() {
	s.getter.err = &model.RequestError{Kind: model.KindTimeout, Endpoint: "x"}
	c := NewGenshinClient(identity(model.GameGenshin, "1", "os_usa"), s.getter, testBase)

	_, err := c.Index(s.ctx)

	var reqErr *model.RequestError
	s.Require().True(errors.As(err, &reqErr))
	s.True(reqErr.IsTimeout())
}

func (s *ClientSuite) TestDefaultBaseURL() {
	c := NewGenshinClient(identity(model.GameGenshin, "1", "os_usa"), s.getter, "")

	_, err := c.Index(s.ctx)
	s.Require().NoError(err)
	s.Equal("https://sg-public-api.hoyolab.com/event/game_record/genshin/api/index", s.getter.last().endpoint)
}

// Operations

func (s *ClientSuite) TestOperationsByName() {
	g := NewGenshinClient(identity(model.GameGenshin, "1", "os_usa"), s.getter, testBase)
	sr := NewStarRailClient(identity(model.GameStarRail, "1", "prod_official_usa"), s.getter, testBase)
	zzz := NewZenlessClient(identity(model.GameZenless, "1", "prod_gf_us"), s.getter, testBase)

	s.ElementsMatch([]string{"index", "note", "abyss"}, keys(g.Operations()))
	s.ElementsMatch([]string{"index", "note", "forgotten-hall", "pure-fiction", "apocalyptic-shadow"}, keys(sr.Operations()))
	s.ElementsMatch([]string{"index", "note", "deadly-assault", "shiyu", "hollow-zero"}, keys(zzz.Operations()))

	_, err := sr.Operations()["pure-fiction"](s.ctx, Options{Schedule: SchedulePrevious, NeedAll: true})
	s.Require().NoError(err)
	s.Equal(testBase+"/game_record/hkrpg/api/challenge_story", s.getter.last().endpoint)
	s.Equal("2", s.getter.last().params["schedule_type"])
}

func keys(m map[string]OperationFunc) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func (s *ClientSuite) TestParseSchedule() {
	for in, want := range map[string]Schedule{"": ScheduleCurrent, "1": ScheduleCurrent, "current": ScheduleCurrent, "2": SchedulePrevious, "Previous": SchedulePrevious} {
		got, err := ParseSchedule(in)
		s.Require().NoError(err)
		s.Equal(want, got, in)
	}
	_, err := ParseSchedule("3")
	s.Error(err)
}
