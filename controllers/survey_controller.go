package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/voxgeo/server/analytics"
	"github.com/voxgeo/server/middleware"
	"github.com/voxgeo/server/models"
	"github.com/voxgeo/server/repository"
	"github.com/voxgeo/server/utils"
)

type SurveyHandler struct {
	store   repository.Store
	metrics *middleware.Metrics
	now     func() time.Time
}

func NewSurveyHandler(store repository.Store, metrics *middleware.Metrics) *SurveyHandler {
	return &SurveyHandler{store: store, metrics: metrics, now: time.Now}
}

/* ========== Create survey ========== */

type createSurveyReq struct {
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	QuestionsSchema []models.Question `json:"questions_schema"`
	Slug            string            `json:"slug"`
}

// Create handles POST /api/surveys
func (h *SurveyHandler) Create(c *gin.Context) {
	var req createSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.QuestionsSchema == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and Questions Schema are required"})
		return
	}
	for i, q := range req.QuestionsSchema {
		if !q.Type.Valid() || strings.TrimSpace(q.Label) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question at position " + strconv.Itoa(i+1)})
			return
		}
		if q.ID == "" {
			id, err := utils.RandomToken(8)
			if err != nil {
				logrus.WithError(err).Error("question id")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating survey"})
				return
			}
			req.QuestionsSchema[i].ID = id
		}
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		generated, err := utils.GenerateSlug(req.Title)
		if err != nil {
			logrus.WithError(err).Error("generate slug")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating survey"})
			return
		}
		slug = generated
	}

	survey := models.Survey{
		Title:           req.Title,
		Description:     req.Description,
		Slug:            slug,
		QuestionsSchema: datatypes.JSONSlice[models.Question](req.QuestionsSchema),
		Active:          true,
	}
	if err := h.store.CreateSurvey(c.Request.Context(), &survey); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Slug already exists. Please choose another."})
			return
		}
		logrus.WithError(err).Error("create survey")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating survey"})
		return
	}

	logrus.WithFields(logrus.Fields{"survey_id": survey.ID, "slug": survey.Slug}).Info("survey created")
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": survey})
}

/* ========== List surveys ========== */

// List handles GET /api/surveys. The legacy pseudo-survey always comes first.
func (h *SurveyHandler) List(c *gin.Context) {
	surveys, err := h.store.ListSurveys(c.Request.Context(), repository.MaxSurveyList)
	if err != nil {
		logrus.WithError(err).Error("list surveys")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar pesquisas"})
		return
	}
	c.JSON(http.StatusOK, append([]models.Survey{models.LegacySurvey()}, surveys...))
}

// GetBySlug handles GET /api/surveys/:slug
func (h *SurveyHandler) GetBySlug(c *gin.Context) {
	survey, err := h.store.GetSurveyBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("get survey")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar pesquisa"})
		return
	}
	c.JSON(http.StatusOK, survey)
}

/* ========== Submit response ========== */

type respondReq struct {
	SurveyID       string         `json:"survey_id"`
	RespondentData map[string]any `json:"respondent_data"`
	Latitude       *float64       `json:"latitude"`
	Longitude      *float64       `json:"longitude"`
	OriginSource   string         `json:"origin_source"`
}

// Respond handles POST /api/surveys/respond
func (h *SurveyHandler) Respond(c *gin.Context) {
	var req respondReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if strings.TrimSpace(req.SurveyID) == "" || req.RespondentData == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Survey ID and Data are required"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetSurveyByID(ctx, req.SurveyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
			return
		}
		logrus.WithError(err).Error("get survey for response")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar resposta"})
		return
	}

	response := models.SurveyResponse{
		SurveyID:       req.SurveyID,
		RespondentData: datatypes.JSONMap(req.RespondentData),
		Latitude:       coordinate(req.Latitude),
		Longitude:      coordinate(req.Longitude),
		OriginSource:   strings.TrimSpace(req.OriginSource),
	}
	if response.OriginSource == "" {
		response.OriginSource = models.OriginDirect
	}
	if err := h.store.CreateResponse(ctx, &response); err != nil {
		logrus.WithError(err).WithField("survey_id", req.SurveyID).Error("create response")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar resposta"})
		return
	}

	h.metrics.ResponseStored()
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": response})
}

// coordinate treats a zero or non-finite value as absent.
func coordinate(v *float64) *float64 {
	if v == nil || *v == 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

/* ========== Analytics ========== */

// Analytics handles GET /api/surveys/analytics?survey_id=
func (h *SurveyHandler) Analytics(c *gin.Context) {
	ctx := c.Request.Context()
	surveyID := strings.TrimSpace(c.Query("survey_id"))

	if surveyID == models.LegacySurveyID {
		votes, err := h.store.ListVotes(ctx, repository.MaxVoterList)
		if err != nil {
			logrus.WithError(err).Error("legacy analytics")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar respostas"})
			return
		}
		c.JSON(http.StatusOK, analytics.Build(analytics.LegacySurvey(), analytics.LegacyResponses(votes), h.now()))
		return
	}

	var (
		survey *models.Survey
		err    error
	)
	if surveyID == "" {
		survey, err = h.store.LatestActiveSurvey(ctx)
	} else {
		survey, err = h.store.GetSurveyByID(ctx, surveyID)
	}
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhuma pesquisa encontrada"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("analytics survey")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar pesquisa"})
		return
	}

	responses, err := h.store.ListResponses(ctx, survey.ID, 0)
	if err != nil {
		logrus.WithError(err).WithField("survey_id", survey.ID).Error("analytics responses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar respostas"})
		return
	}
	c.JSON(http.StatusOK, analytics.Build(*survey, responses, h.now()))
}
