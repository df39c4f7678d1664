package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/voxgeo/server/dashboard"
	"github.com/voxgeo/server/repository"
)

type VoterHandler struct {
	store repository.Store
}

func NewVoterHandler(store repository.Store) *VoterHandler {
	return &VoterHandler{store: store}
}

/* ========== Voter list ========== */

// List handles GET /api/voters?survey_id=. Legacy votes and survey
// responses share the dashboard record shape. Store failures yield an empty list.
func (h *VoterHandler) List(c *gin.Context) {
	set := loadRecords(c.Request.Context(), h.store, strings.TrimSpace(c.Query("survey_id")))
	c.JSON(http.StatusOK, set.Records)
}

/* ========== CRM export ========== */

var exportHeader = []string{
	"id", "candidato", "nome", "cpf", "whatsapp", "sexo", "idade", "escolaridade",
	"renda", "principal_problema", "certeza", "voluntario", "latitude", "longitude", "criado_em",
}

func exportRow(r dashboard.Record) []string {
	certainty := ""
	if r.VoteCertainty > 0 {
		certainty = strconv.Itoa(r.VoteCertainty)
	}
	lat, lng := "", ""
	if r.HasCoordinate {
		lat = strconv.FormatFloat(r.Latitude, 'f', -1, 64)
		lng = strconv.FormatFloat(r.Longitude, 'f', -1, 64)
	}
	return []string{
		r.ID, r.Candidate, r.VoterName, r.VoterCPF, r.VoterWhatsapp, r.VoterGender,
		r.VoterAgeRange, r.VoterEducation, r.VoterIncome, r.MainConcern, certainty,
		strconv.FormatBool(r.IsVolunteer), lat, lng, r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Export handles GET /api/voters/export?format=csv|xlsx with the dashboard filters.
func (h *VoterHandler) Export(c *gin.Context) {
	set := loadRecords(c.Request.Context(), h.store, strings.TrimSpace(c.Query("survey_id")))
	records := dashboard.Apply(set.Records, bindFilters(c))

	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	switch format {
	case "csv":
		h.writeCSV(c, records)
	case "xlsx":
		h.writeXLSX(c, records)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
	}
}

func attachment(c *gin.Context, ext string) {
	name := fmt.Sprintf("voxgeo-eleitores-%s.%s", time.Now().Format("20060102-150405"), ext)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
}

func (h *VoterHandler) writeCSV(c *gin.Context, records []dashboard.Record) {
	attachment(c, "csv")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err := w.Write(exportHeader); err != nil {
		logrus.WithError(err).Error("csv export")
		return
	}
	for _, r := range records {
		if err := w.Write(exportRow(r)); err != nil {
			logrus.WithError(err).Error("csv export")
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		logrus.WithError(err).Error("csv export")
	}
}

const exportSheet = "Eleitores"

func buildWorkbook(records []dashboard.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := exportRow(r)
		row := make([]any, len(values))
		for j, v := range values {
			row[j] = v
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (h *VoterHandler) writeXLSX(c *gin.Context, records []dashboard.Record) {
	f, err := buildWorkbook(records)
	if err != nil {
		logrus.WithError(err).Error("xlsx export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao exportar"})
		return
	}
	defer f.Close()

	attachment(c, "xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		logrus.WithError(err).Error("xlsx export")
	}
}
