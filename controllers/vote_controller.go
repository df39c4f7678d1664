package controllers

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/voxgeo/server/geo"
	"github.com/voxgeo/server/middleware"
	"github.com/voxgeo/server/models"
	"github.com/voxgeo/server/repository"
	"github.com/voxgeo/server/voting"
)

type VoteHandler struct {
	store       repository.Store
	metrics     *middleware.Metrics
	demoCenter  geo.Place
	demoRecords int
	rnd         func() *rand.Rand
}

func NewVoteHandler(store repository.Store, metrics *middleware.Metrics, demoCenter geo.Place, demoRecords int) *VoteHandler {
	return &VoteHandler{
		store:       store,
		metrics:     metrics,
		demoCenter:  demoCenter,
		demoRecords: demoRecords,
		rnd: func() *rand.Rand {
			now := uint64(time.Now().UnixNano())
			return rand.New(rand.NewPCG(now, now>>1))
		},
	}
}

/* ========== Submit vote intention ========== */

// Submit handles POST /api/vote
func (h *VoteHandler) Submit(c *gin.Context) {
	fields, err := readFields(c)
	if err != nil {
		h.metrics.VoteResult(middleware.VoteInvalid)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": voting.MsgLocationRequired})
		return
	}

	vote, err := voting.Build(payloadFrom(fields))
	if err != nil {
		h.metrics.VoteResult(middleware.VoteInvalid)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	vote.IPAddress = c.ClientIP()

	if err := h.store.CreateVote(c.Request.Context(), &vote); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			h.metrics.VoteResult(middleware.VoteDuplicate)
			logrus.WithField("ip", vote.IPAddress).Info("duplicate cpf")
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": voting.MsgDuplicateCPF})
			return
		}
		h.metrics.VoteResult(middleware.VoteFailed)
		logrus.WithError(err).Error("create vote")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": voting.MsgSaveFailed})
		return
	}

	h.metrics.VoteResult(middleware.VoteAccepted)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": voting.MsgSuccess})
}

/* ========== Map markers ========== */

// Markers handles GET /api/markers. Failures yield an empty list.
func (h *VoteHandler) Markers(c *gin.Context) {
	markers, err := h.store.ListMarkers(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("list markers")
		c.JSON(http.StatusOK, []models.Marker{})
		return
	}
	c.JSON(http.StatusOK, markers)
}

/* ========== Demo flow ========== */

// DemoVote handles POST /api/demo/vote
func (h *VoteHandler) DemoVote(c *gin.Context) {
	fields, err := readFields(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": voting.ErrDemoMissingFields.Error()})
		return
	}

	vote, err := voting.BuildDemo(payloadFrom(fields))
	if err != nil {
		h.metrics.VoteResult(middleware.VoteInvalid)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.CreateVote(c.Request.Context(), &vote); err != nil {
		h.metrics.VoteResult(middleware.VoteFailed)
		logrus.WithError(err).Error("create demo vote")
		c.JSON(http.StatusInternalServerError, gin.H{"error": voting.MsgSaveFailed})
		return
	}

	h.metrics.VoteResult(middleware.VoteAccepted)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": vote})
}

// DemoSeed handles GET /api/demo/seed and answers with an HTML page.
func (h *VoteHandler) DemoSeed(c *gin.Context) {
	n, err := voting.ResetDemo(c.Request.Context(), h.store, h.rnd(), h.demoRecords, h.demoCenter.Lat, h.demoCenter.Lng)
	if err != nil {
		logrus.WithError(err).Error("demo seed")
		c.HTML(http.StatusInternalServerError, "demo_seed.html", gin.H{
			"Success": false,
			"Error":   "Não foi possível gerar os dados de demonstração.",
		})
		return
	}

	logrus.WithFields(logrus.Fields{"records": n, "center": h.demoCenter.Name}).Info("demo data seeded")
	c.HTML(http.StatusOK, "demo_seed.html", gin.H{
		"Success": true,
		"Count":   n,
		"Center":  h.demoCenter.Name,
	})
}
