package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/voxgeo/server/controllers"
	"github.com/voxgeo/server/middleware"
	"github.com/voxgeo/server/web"
)

// Handlers groups every controller the route table needs.
type Handlers struct {
	Votes     *controllers.VoteHandler
	Voters    *controllers.VoterHandler
	Surveys   *controllers.SurveyHandler
	Dashboard *controllers.DashboardHandler
	Health    *controllers.HealthHandler
	Pages     *controllers.PageHandler

	Metrics *middleware.Metrics
	// WriteLimiter guards the public POST endpoints.
	WriteLimiter *middleware.IPRateLimiter
}

// NewRouter builds the engine with recovery, logging, metrics and templates.
// extra runs after those and before every route.
func NewRouter(h Handlers, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), h.Metrics.Instrument())
	r.Use(extra...)
	r.SetHTMLTemplate(web.Templates())
	SetupRoutes(r, h)
	return r
}

func SetupRoutes(r *gin.Engine, h Handlers) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/health", h.Health.Health)
	r.GET("/metrics", h.Metrics.Handler())

	limit := middleware.RateLimitByIP(h.WriteLimiter)

	api := r.Group("/api")
	{
		api.POST("/vote", limit, h.Votes.Submit)
		api.GET("/markers", h.Votes.Markers)

		voters := api.Group("/voters")
		{
			voters.GET("", h.Voters.List)
			voters.GET("/export", h.Voters.Export)
		}

		surveys := api.Group("/surveys")
		{
			surveys.POST("", limit, h.Surveys.Create)
			surveys.GET("", h.Surveys.List)
			surveys.GET("/analytics", h.Surveys.Analytics)
			surveys.POST("/respond", limit, h.Surveys.Respond)
			surveys.GET("/:slug", h.Surveys.GetBySlug)
		}

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/summary", h.Dashboard.Summary)
			dashboard.GET("/map", h.Dashboard.Map)
			dashboard.GET("/map.geojson", h.Dashboard.MapGeoJSON)
		}

		demo := api.Group("/demo")
		{
			demo.POST("/vote", h.Votes.DemoVote)
			demo.GET("/seed", h.Votes.DemoSeed)
		}
	}

	// Pages
	r.GET("/", h.Pages.Vote)
	r.GET("/p/:slug", h.Pages.Survey)
	r.GET("/demo", h.Pages.Demo)
	board := r.Group("/dashboard")
	{
		board.GET("", h.Pages.Dashboard)
		board.GET("/surveys", h.Pages.Surveys)
		board.GET("/surveys/create", h.Pages.CreateSurvey)
		board.GET("/analytics", h.Pages.Analytics)
	}
}
