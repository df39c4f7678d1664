// Package voting normalises and validates vote-intention submissions.
package voting

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/voxgeo/server/models"
	"github.com/voxgeo/server/utils"
)

const (
	DefaultCertainty = 3
	cpfLength        = 11
	minNameLength    = 3
	minPhoneLength   = 10
	maxPhoneLength   = 11
)

// Messages shown to the respondent when a rule is violated.
const (
	MsgLocationRequired = "Localização e candidato são obrigatórios."
	MsgInvalidCandidate = "Candidato inválido."
	MsgInvalidName      = "Digite um nome válido."
	MsgInvalidCPF       = "CPF inválido (necessário 11 dígitos)."
	MsgInvalidWhatsapp  = "WhatsApp inválido (DDD + Número)."
	MsgDuplicateCPF     = "Este CPF já registrou um voto."
	MsgSaveFailed       = "Erro ao salvar voto."
	MsgSuccess          = "Voto e dados registrados com sucesso!"
)

// Payload is the raw submission; every field arrives as text regardless of
// whether the client posted a form or JSON.
type Payload struct {
	CandidateID    string
	Lat            string
	Lng            string
	VoterName      string
	VoterCPF       string
	VoterWhatsapp  string
	VoterGender    string
	VoterAgeRange  string
	VoterEducation string
	VoterIncome    string
	MainConcern    string
	VoteCertainty  string
	IsVolunteer    string
}

// ValidationError carries every violated rule, in rule order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, " ")
}

// Build validates p and returns the record ready for the store. The IP
// address is left for the caller to fill.
func Build(p Payload) (models.VoteIntention, error) {
	var msgs []string

	candidateRaw := strings.TrimSpace(p.CandidateID)
	lat, latOK := parseCoordinate(p.Lat)
	lng, lngOK := parseCoordinate(p.Lng)
	if candidateRaw == "" || !latOK || !lngOK {
		msgs = append(msgs, MsgLocationRequired)
	}

	candidate := 0
	if candidateRaw != "" {
		candidate = parseCandidate(candidateRaw)
		if candidate == 0 {
			msgs = append(msgs, MsgInvalidCandidate)
		}
	}

	name := strings.TrimSpace(p.VoterName)
	if utf8.RuneCountInString(name) < minNameLength {
		msgs = append(msgs, MsgInvalidName)
	}

	cpf := utils.OnlyDigits(p.VoterCPF)
	if len(cpf) != cpfLength {
		msgs = append(msgs, MsgInvalidCPF)
	}

	whatsapp := utils.OnlyDigits(p.VoterWhatsapp)
	if len(whatsapp) < minPhoneLength || len(whatsapp) > maxPhoneLength {
		msgs = append(msgs, MsgInvalidWhatsapp)
	}

	if len(msgs) > 0 {
		return models.VoteIntention{}, &ValidationError{Messages: msgs}
	}

	return models.VoteIntention{
		CandidateID:    candidate,
		Latitude:       lat,
		Longitude:      lng,
		VoterName:      name,
		VoterCPF:       &cpf,
		VoterWhatsapp:  whatsapp,
		VoterGender:    strings.TrimSpace(p.VoterGender),
		VoterAgeRange:  strings.TrimSpace(p.VoterAgeRange),
		VoterEducation: strings.TrimSpace(p.VoterEducation),
		VoterIncome:    strings.TrimSpace(p.VoterIncome),
		MainConcern:    strings.TrimSpace(p.MainConcern),
		VoteCertainty:  ParseCertainty(p.VoteCertainty),
		IsVolunteer:    ParseCheckbox(p.IsVolunteer),
	}, nil
}

func parseCoordinate(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseCandidate returns 0 for anything but the two enumerated candidates.
func parseCandidate(raw string) int {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	switch v {
	case models.CandidateBlue:
		return models.CandidateBlue
	case models.CandidateGreen:
		return models.CandidateGreen
	}
	return 0
}

// ParseCertainty falls back to DefaultCertainty outside 1..5.
func ParseCertainty(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 || v > 5 {
		return DefaultCertainty
	}
	return v
}

// ParseCheckbox accepts the HTML checkbox value plus the usual JSON spellings.
func ParseCheckbox(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
