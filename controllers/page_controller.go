package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxgeo/server/geo"
)

// PageHandler renders the HTML pages from the embedded templates.
type PageHandler struct {
	mapCenter  geo.Place
	demoCenter geo.Place
}

func NewPageHandler(mapCenter, demoCenter geo.Place) *PageHandler {
	return &PageHandler{mapCenter: mapCenter, demoCenter: demoCenter}
}

func (h *PageHandler) Vote(c *gin.Context) {
	c.HTML(http.StatusOK, "vote.html", gin.H{"Title": "Votar"})
}

func (h *PageHandler) Survey(c *gin.Context) {
	c.HTML(http.StatusOK, "survey.html", gin.H{"Title": "Pesquisa", "Slug": c.Param("slug")})
}

func (h *PageHandler) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{"Title": "Dashboard", "Center": h.mapCenter})
}

func (h *PageHandler) Surveys(c *gin.Context) {
	c.HTML(http.StatusOK, "surveys.html", gin.H{"Title": "Pesquisas"})
}

func (h *PageHandler) CreateSurvey(c *gin.Context) {
	c.HTML(http.StatusOK, "survey_create.html", gin.H{"Title": "Nova pesquisa"})
}

func (h *PageHandler) Analytics(c *gin.Context) {
	c.HTML(http.StatusOK, "analytics.html", gin.H{
		"Title":    "Análises",
		"Center":   h.mapCenter,
		"SurveyID": c.Query("survey_id"),
	})
}

func (h *PageHandler) Demo(c *gin.Context) {
	c.HTML(http.StatusOK, "demo.html", gin.H{"Title": "Demo", "DemoCenter": h.demoCenter})
}
