package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/voxgeo/server/analytics"
	"github.com/voxgeo/server/dashboard"
	"github.com/voxgeo/server/models"
	"github.com/voxgeo/server/repository"
	"github.com/voxgeo/server/voting"
)

/* ========== Request fields ========== */

// readFields flattens a form post or a JSON object into text values.
func readFields(c *gin.Context) (map[string]string, error) {
	if c.ContentType() == binding.MIMEJSON {
		var raw map[string]any
		if err := c.ShouldBindJSON(&raw); err != nil {
			return nil, err
		}
		out := make(map[string]string, len(raw))
		for k, v := range raw {
			if v != nil {
				out[k] = analytics.AnswerString(v)
			}
		}
		return out, nil
	}

	if err := c.Request.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	out := make(map[string]string, len(c.Request.PostForm))
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}

// first returns the first non-empty value among keys.
func first(fields map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(fields[k]); v != "" {
			return fields[k]
		}
	}
	return ""
}

func payloadFrom(fields map[string]string) voting.Payload {
	return voting.Payload{
		CandidateID:    fields["candidate_id"],
		Lat:            first(fields, "lat", "latitude"),
		Lng:            first(fields, "lng", "longitude"),
		VoterName:      fields["voter_name"],
		VoterCPF:       fields["voter_cpf"],
		VoterWhatsapp:  fields["voter_whatsapp"],
		VoterGender:    fields["voter_gender"],
		VoterAgeRange:  fields["voter_age_range"],
		VoterEducation: fields["voter_education"],
		VoterIncome:    fields["voter_income"],
		MainConcern:    fields["main_concern"],
		VoteCertainty:  fields["vote_certainty"],
		IsVolunteer:    fields["is_volunteer"],
	}
}

/* ========== Voter records ========== */

func isLegacy(surveyID string) bool {
	return surveyID == "" || surveyID == models.LegacySurveyID
}

// recordSet is the voter list in dashboard shape, with the candidate pair
// the leader card compares.
type recordSet struct {
	Records []dashboard.Record
	Pair    dashboard.Pair
	Seed    []string
}

// loadRecords reads the legacy table or a survey's adapted responses.
// Store failures are logged and produce an empty set.
func loadRecords(ctx context.Context, store repository.Store, surveyID string) recordSet {
	if isLegacy(surveyID) {
		set := recordSet{Records: []dashboard.Record{}, Pair: dashboard.LegacyPair, Seed: dashboard.LegacyPair[:]}
		votes, err := store.ListVotes(ctx, repository.MaxVoterList)
		if err != nil {
			logrus.WithError(err).Error("list votes")
			return set
		}
		set.Records = dashboard.FromVotes(votes)
		return set
	}

	set := recordSet{Records: []dashboard.Record{}}
	responses, err := store.ListResponses(ctx, surveyID, repository.MaxVoterList)
	if err != nil {
		logrus.WithError(err).WithField("survey_id", surveyID).Error("list responses")
		return set
	}
	set.Records = dashboard.FromProfiles(analytics.AdaptProfiles(responses))
	return set
}

// bindFilters reads the dashboard filter query. A malformed query means no filters.
func bindFilters(c *gin.Context) dashboard.Filters {
	var f dashboard.Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		logrus.WithError(err).Debug("bind filters")
	}
	return f
}
