package analytics

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/voxgeo/server/models"
)

// Placeholders used when no answer key maps to a profile field.
const (
	PlaceholderCandidate = "Indeciso"
	PlaceholderName      = "Anônimo"
	PlaceholderUnknown   = "Não informado"
)

// Profile mirrors the vote-intention JSON shape so the dashboard can list
// survey respondents next to legacy voters.
type Profile struct {
	ID             string         `json:"id"`
	SurveyID       string         `json:"survey_id"`
	CandidateID    string         `json:"candidate_id"`
	VoterName      string         `json:"voter_name"`
	MainConcern    string         `json:"main_concern"`
	VoterAgeRange  string         `json:"voter_age_range"`
	VoterIncome    string         `json:"voter_income"`
	VoterGender    string         `json:"voter_gender"`
	VoterEducation string         `json:"voter_education"`
	Latitude       *float64       `json:"latitude"`
	Longitude      *float64       `json:"longitude"`
	OriginSource   string         `json:"origin_source"`
	RespondentData map[string]any `json:"respondent_data"`
	CreatedAt      time.Time      `json:"created_at"`
}

type ProfileField string

const (
	FieldCandidate ProfileField = "candidate"
	FieldName      ProfileField = "name"
	FieldConcern   ProfileField = "concern"
	FieldAge       ProfileField = "age"
	FieldIncome    ProfileField = "income"
	FieldGender    ProfileField = "gender"
)

type profileRule struct {
	field    ProfileField
	keywords []string
	set      func(*Profile, string)
}

// profileRules is evaluated top to bottom; the first rule whose keyword is
// a substring of the lowercased key wins. Keywords are Portuguese only.
var profileRules = []profileRule{
	{FieldCandidate, []string{"candidato", "opção", "voto", "escolha"}, func(p *Profile, v string) { p.CandidateID = v }},
	{FieldName, []string{"nome"}, func(p *Profile, v string) { p.VoterName = v }},
	{FieldConcern, []string{"problema", "dor", "melhoria"}, func(p *Profile, v string) { p.MainConcern = v }},
	{FieldAge, []string{"idade", "anos"}, func(p *Profile, v string) { p.VoterAgeRange = v }},
	{FieldIncome, []string{"renda", "ganha"}, func(p *Profile, v string) { p.VoterIncome = v }},
	{FieldGender, []string{"sexo", "gênero"}, func(p *Profile, v string) { p.VoterGender = v }},
}

func normalizeKey(key string) string {
	return cases.Lower(language.BrazilianPortuguese).String(norm.NFC.String(key))
}

func matchRule(key string) (profileRule, bool) {
	k := normalizeKey(key)
	for _, rule := range profileRules {
		for _, kw := range rule.keywords {
			if strings.Contains(k, kw) {
				return rule, true
			}
		}
	}
	return profileRule{}, false
}

// MatchField classifies a question label.
func MatchField(key string) (ProfileField, bool) {
	rule, ok := matchRule(key)
	return rule.field, ok
}

// AdaptProfile reshapes one response. Keys are visited in sorted order and
// the first key to claim a field keeps it, so the result does not depend on
// map iteration.
func AdaptProfile(r models.SurveyResponse) Profile {
	p := Profile{
		ID:             r.ID,
		SurveyID:       r.SurveyID,
		CandidateID:    PlaceholderCandidate,
		VoterName:      PlaceholderName,
		MainConcern:    PlaceholderUnknown,
		VoterAgeRange:  PlaceholderUnknown,
		VoterIncome:    PlaceholderUnknown,
		VoterGender:    PlaceholderUnknown,
		VoterEducation: PlaceholderUnknown,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		OriginSource:   r.OriginSource,
		RespondentData: map[string]any(r.RespondentData),
		CreatedAt:      r.CreatedAt,
	}
	if p.RespondentData == nil {
		p.RespondentData = map[string]any{}
	}

	keys := make([]string, 0, len(r.RespondentData))
	for k := range r.RespondentData {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	claimed := map[ProfileField]bool{}
	for _, k := range keys {
		v := r.RespondentData[k]
		if !answered(v) {
			continue
		}
		rule, ok := matchRule(k)
		if !ok || claimed[rule.field] {
			continue
		}
		claimed[rule.field] = true
		rule.set(&p, AnswerString(v))
	}
	return p
}

func AdaptProfiles(responses []models.SurveyResponse) []Profile {
	out := make([]Profile, 0, len(responses))
	for _, r := range responses {
		out = append(out, AdaptProfile(r))
	}
	return out
}
