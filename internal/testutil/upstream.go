package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// Paths served by Upstream
const (
	CardPath        = "/game_record/card/wapi/getGameRecordCard"
	RecordBasePath  = "/event"
	GenshinIndex    = RecordBasePath + "/game_record/genshin/api/index"
	GenshinNote     = RecordBasePath + "/game_record/genshin/api/dailyNote"
	StarRailNote    = RecordBasePath + "/game_record/hkrpg/api/note"
	ZenlessNote     = RecordBasePath + "/game_record_zzz/api/zzz/note"
	DefaultCookie   = "ltuid_v2=42; ltoken_v2=lt; account_id_v2=42; cookie_token_v2=ct; _ga=x"
	DefaultAccount  = 42
	GenshinUID      = "800000001"
	StarRailUID     = "600000001"
	ZenlessUID      = "1300000001"
	GenshinRegion   = "os_asia"
	StarRailRegion  = "prod_official_asia"
	ZenlessRegion   = "prod_gf_sg"
	okEnvelopeStart = `{"retcode":0,"message":"OK","data":`
)

// DefaultCardBody links all three record games. Zenless sits on a
// domestic-signed cluster.
const DefaultCardBody = `{"retcode":0,"message":"OK","data":{"list":[
{"game_id":2,"game_role_id":"` + GenshinUID + `","region":"` + GenshinRegion + `","nickname":"Traveler","level":60},
{"game_id":6,"game_role_id":"` + StarRailUID + `","region":"` + StarRailRegion + `","nickname":"Trailblazer","level":70},
{"game_id":8,"game_role_id":` + ZenlessUID + `,"region":"` + ZenlessRegion + `","nickname":"Proxy","level":55},
{"game_id":99,"game_role_id":"1","region":"x"}
]}}`

// Request is a recorded upstream request
type Request struct {
	Path   string
	Query  url.Values
	Header http.Header
}

type response struct {
	status int
	body   string
}

// Upstream is a fake platform API. Unregistered paths answer 404.
type Upstream struct {
	Server *httptest.Server

	mu        sync.Mutex
	responses map[string]response
	requests  []Request
}

// NewUpstream starts a fake platform serving the default record card and
// daily notes for every game. It is closed when the test ends.
func NewUpstream(t testing.TB) *Upstream {
	t.Helper()
	u := &Upstream{responses: make(map[string]response)}
	u.Handle(CardPath, http.StatusOK, DefaultCardBody)
	u.HandleData(GenshinIndex, `{"role":{"nickname":"Traveler"},"avatars":[]}`)
	u.HandleData(GenshinNote, `{"current_resin":120,"max_resin":200,"resin_recovery_time":"28800",
"finished_task_num":4,"total_task_num":4,"current_expedition_num":5,"max_expedition_num":5}`)
	u.HandleData(StarRailNote, `{"current_stamina":180,"max_stamina":240,"stamina_recover_time":14400,
"accepted_epedition_num":4,"total_expedition_num":4,"expeditions":[]}`)
	u.HandleData(ZenlessNote, `{"energy":{"progress":{"max":240,"current":100},"restore":50400},"vitality":{"max":400,"current":400}}`)

	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Server.Close)
	return u
}

// Handle registers a raw response for path
func (u *Upstream) Handle(path string, status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.responses[path] = response{status: status, body: body}
}

// HandleData registers a successful envelope around data for path
func (u *Upstream) HandleData(path, data string) {
	u.Handle(path, http.StatusOK, okEnvelopeStart+data+"}")
}

// CardURL is the record card endpoint on this server
func (u *Upstream) CardURL() string {
	return u.Server.URL + CardPath
}

// RecordBaseURL is the game record prefix on this server
func (u *Upstream) RecordBaseURL() string {
	return u.Server.URL + RecordBasePath
}

// Requests returns every request received so far
func (u *Upstream) Requests() []Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]Request, len(u.requests))
	copy(out, u.requests)
	return out
}

// Last returns the most recent request
func (u *Upstream) Last() (Request, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.requests) == 0 {
		return Request{}, false
	}
	return u.requests[len(u.requests)-1], true
}

// Count returns how many requests hit path
func (u *Upstream) Count(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, r := range u.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.requests = append(u.requests, Request{
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	})
	resp, ok := u.responses[r.URL.Path]
	u.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}
