package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/voxgeo/server/geo"
	"github.com/voxgeo/server/middleware"
	"github.com/voxgeo/server/models"
	"github.com/voxgeo/server/repository"
	"github.com/voxgeo/server/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errStore = errors.New("store unavailable")

// brokenStore fails every read the swallowing endpoints depend on.
type brokenStore struct {
	repository.Store
}

func (brokenStore) ListMarkers(context.Context) ([]models.Marker, error) { return nil, errStore }
func (brokenStore) ListVotes(context.Context, int) ([]models.VoteIntention, error) {
	return nil, errStore
}
func (brokenStore) ListResponses(context.Context, string, int) ([]models.SurveyResponse, error) {
	return nil, errStore
}
func (brokenStore) ListSurveys(context.Context, int) ([]models.Survey, error) { return nil, errStore }
func (brokenStore) Ping(context.Context) error                                { return errStore }

func newTestRouter(store repository.Store) *gin.Engine {
	metrics := middleware.NewMetrics()
	votes := NewVoteHandler(store, metrics, geo.Manaus, 50)
	voters := NewVoterHandler(store)
	surveys := NewSurveyHandler(store, metrics)
	board := NewDashboardHandler(store, geo.Jundiai)
	pages := NewPageHandler(geo.Jundiai, geo.Manaus)

	r := gin.New()
	r.SetHTMLTemplate(web.Templates())
	r.POST("/api/vote", votes.Submit)
	r.GET("/api/markers", votes.Markers)
	r.POST("/api/demo/vote", votes.DemoVote)
	r.GET("/api/demo/seed", votes.DemoSeed)
	r.GET("/api/voters", voters.List)
	r.GET("/api/voters/export", voters.Export)
	r.POST("/api/surveys", surveys.Create)
	r.GET("/api/surveys", surveys.List)
	r.GET("/api/surveys/analytics", surveys.Analytics)
	r.POST("/api/surveys/respond", surveys.Respond)
	r.GET("/api/surveys/:slug", surveys.GetBySlug)
	r.GET("/api/dashboard/summary", board.Summary)
	r.GET("/api/dashboard/map", board.Map)
	r.GET("/api/dashboard/map.geojson", board.MapGeoJSON)
	r.GET("/health", NewHealthHandler(store).Health)
	r.GET("/", pages.Vote)
	r.GET("/p/:slug", pages.Survey)
	r.GET("/dashboard", pages.Dashboard)
	r.GET("/dashboard/analytics", pages.Analytics)
	r.GET("/demo", pages.Demo)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(r, req)
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return do(r, req)
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	return do(r, httptest.NewRequest(http.MethodGet, path, nil))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func mariaSilva() url.Values {
	return url.Values{
		"candidate_id":    {"1"},
		"lat":             {"-3.119"},
		"lng":             {"-60.0217"},
		"voter_name":      {"Maria Silva"},
		"voter_cpf":       {"111.222.333-44"},
		"voter_whatsapp":  {"(41) 98523-6910"},
		"voter_gender":    {"Feminino"},
		"voter_age_range": {"25-44"},
		"main_concern":    {"Saude"},
		"vote_certainty":  {"5"},
		"is_volunteer":    {"on"},
	}
}
