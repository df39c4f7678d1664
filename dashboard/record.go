// Package dashboard filters and aggregates the voter list behind the war
// room view. Every pass is a full recomputation over at most a thousand
// records.
package dashboard

import (
	"math"
	"strconv"
	"time"

	"github.com/voxgeo/server/analytics"
	"github.com/voxgeo/server/models"
)

// Record is the common row for legacy votes and adapted survey responses.
type Record struct {
	ID             string         `json:"id"`
	Candidate      string         `json:"candidate_id"`
	VoterName      string         `json:"voter_name"`
	VoterCPF       string         `json:"voter_cpf"`
	VoterWhatsapp  string         `json:"voter_whatsapp"`
	VoterGender    string         `json:"voter_gender"`
	VoterAgeRange  string         `json:"voter_age_range"`
	VoterEducation string         `json:"voter_education"`
	VoterIncome    string         `json:"voter_income"`
	MainConcern    string         `json:"main_concern"`
	VoteCertainty  int            `json:"vote_certainty"`
	IsVolunteer    bool           `json:"is_volunteer"`
	Latitude       float64        `json:"latitude"`
	Longitude      float64        `json:"longitude"`
	HasCoordinate  bool           `json:"has_location"`
	Answers        map[string]any `json:"respondent_data"`
	CreatedAt      time.Time      `json:"created_at"`
}

func FromVote(v models.VoteIntention) Record {
	cpf := ""
	if v.VoterCPF != nil {
		cpf = *v.VoterCPF
	}
	return Record{
		ID:             strconv.FormatUint(uint64(v.ID), 10),
		Candidate:      strconv.Itoa(v.CandidateID),
		VoterName:      v.VoterName,
		VoterCPF:       cpf,
		VoterWhatsapp:  v.VoterWhatsapp,
		VoterGender:    v.VoterGender,
		VoterAgeRange:  v.VoterAgeRange,
		VoterEducation: v.VoterEducation,
		VoterIncome:    v.VoterIncome,
		MainConcern:    v.MainConcern,
		VoteCertainty:  v.VoteCertainty,
		IsVolunteer:    v.IsVolunteer,
		Latitude:       v.Latitude,
		Longitude:      v.Longitude,
		HasCoordinate:  finite(v.Latitude) && finite(v.Longitude),
		Answers:        map[string]any{},
		CreatedAt:      v.CreatedAt,
	}
}

func FromProfile(p analytics.Profile) Record {
	r := Record{
		ID:             p.ID,
		Candidate:      p.CandidateID,
		VoterName:      p.VoterName,
		VoterGender:    p.VoterGender,
		VoterAgeRange:  p.VoterAgeRange,
		VoterEducation: p.VoterEducation,
		VoterIncome:    p.VoterIncome,
		MainConcern:    p.MainConcern,
		Answers:        p.RespondentData,
		CreatedAt:      p.CreatedAt,
	}
	if p.Latitude != nil && p.Longitude != nil && finite(*p.Latitude) && finite(*p.Longitude) {
		r.Latitude, r.Longitude, r.HasCoordinate = *p.Latitude, *p.Longitude, true
	}
	return r
}

func FromVotes(votes []models.VoteIntention) []Record {
	out := make([]Record, 0, len(votes))
	for _, v := range votes {
		out = append(out, FromVote(v))
	}
	return out
}

func FromProfiles(profiles []analytics.Profile) []Record {
	out := make([]Record, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, FromProfile(p))
	}
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
