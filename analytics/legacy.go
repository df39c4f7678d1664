package analytics

import (
	"strconv"

	"gorm.io/datatypes"

	"github.com/voxgeo/server/models"
)

// Labels of the pseudo-schema applied to the vote_intentions table.
const (
	LegacyLabelCandidate = "Candidato"
	LegacyLabelConcern   = "Principal problema"
	LegacyLabelCertainty = "Certeza do voto"
	LegacyLabelGender    = "Sexo"
	LegacyLabelAge       = "Idade"
	LegacyLabelEducation = "Escolaridade"
	LegacyLabelIncome    = "Renda"
)

// LegacySurvey describes the fixed vote-intention form as a survey so it can
// go through the same chart builder.
func LegacySurvey() models.Survey {
	s := models.LegacySurvey()
	s.QuestionsSchema = datatypes.JSONSlice[models.Question]{
		{ID: "candidate_id", Type: models.QuestionSelect, Label: LegacyLabelCandidate},
		{ID: "main_concern", Type: models.QuestionSelect, Label: LegacyLabelConcern},
		{ID: "vote_certainty", Type: models.QuestionScale, Label: LegacyLabelCertainty},
		{ID: "voter_gender", Type: models.QuestionSelect, Label: LegacyLabelGender},
		{ID: "voter_age_range", Type: models.QuestionSelect, Label: LegacyLabelAge},
		{ID: "voter_education", Type: models.QuestionSelect, Label: LegacyLabelEducation},
		{ID: "voter_income", Type: models.QuestionSelect, Label: LegacyLabelIncome},
	}
	return s
}

// LegacyResponses maps vote intentions onto the pseudo-schema. Empty
// strings stay out of the answer map.
func LegacyResponses(votes []models.VoteIntention) []models.SurveyResponse {
	out := make([]models.SurveyResponse, 0, len(votes))
	for _, v := range votes {
		data := datatypes.JSONMap{
			LegacyLabelCandidate: strconv.Itoa(v.CandidateID),
			LegacyLabelCertainty: float64(v.VoteCertainty),
		}
		for label, value := range map[string]string{
			LegacyLabelConcern:   v.MainConcern,
			LegacyLabelGender:    v.VoterGender,
			LegacyLabelAge:       v.VoterAgeRange,
			LegacyLabelEducation: v.VoterEducation,
			LegacyLabelIncome:    v.VoterIncome,
		} {
			if value != "" {
				data[label] = value
			}
		}

		lat, lng := v.Latitude, v.Longitude
		out = append(out, models.SurveyResponse{
			ID:             strconv.FormatUint(uint64(v.ID), 10),
			SurveyID:       models.LegacySurveyID,
			RespondentData: data,
			Latitude:       &lat,
			Longitude:      &lng,
			OriginSource:   models.OriginDirect,
			CreatedAt:      v.CreatedAt,
		})
	}
	return out
}
