package voting

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/voxgeo/server/models"
)

const (
	DemoIP          = "127.0.0.1"
	DemoWhatsapp    = "41985236910"
	demoSpreadDeg   = 0.04
	demoDefaultName = "Anonymous Demo Voter"
	demoConcern     = "Not Specified"
)

var (
	demoNames      = []string{"Cliente Teste 01", "Maria Silva", "João Santos", "Ana Pereira", "Carlos Oliveira", "Lucia Souza", "Marcos Lima", "Julia Costa"}
	demoConcerns   = []string{"Seguranca", "Saude", "Educacao", "Infraestrutura", "Emprego"}
	demoEducations = []string{"Fundamental Incompleto", "Fundamental Completo", "Medio Completo", "Superior Completo", "Pos Graduacao"}
	demoIncomes    = []string{"Ate 1 SM", "1 a 3 SM", "3 a 5 SM", "Acima de 10 SM"}
	demoAgeRanges  = []string{"16-24", "25-44", "45-59", "60+"}
)

// ErrDemoMissingFields is returned by BuildDemo when the candidate or the
// coordinate is absent.
var ErrDemoMissingFields = errors.New("missing required fields: candidate_id, latitude, longitude")

// BuildDemo is the relaxed validation used by the demo flow: only the
// candidate and coordinate are required, everything else gets a default.
func BuildDemo(p Payload) (models.VoteIntention, error) {
	lat, latOK := parseCoordinate(p.Lat)
	lng, lngOK := parseCoordinate(p.Lng)
	candidate := parseCandidate(strings.TrimSpace(p.CandidateID))
	if candidate == 0 || !latOK || !lngOK || lat == 0 || lng == 0 {
		return models.VoteIntention{}, ErrDemoMissingFields
	}

	name := strings.TrimSpace(p.VoterName)
	if name == "" {
		name = demoDefaultName
	}
	concern := strings.TrimSpace(p.MainConcern)
	if concern == "" {
		concern = demoConcern
	}

	return models.VoteIntention{
		CandidateID:    candidate,
		Latitude:       lat,
		Longitude:      lng,
		IPAddress:      DemoIP,
		VoterName:      name,
		VoterWhatsapp:  strings.TrimSpace(p.VoterWhatsapp),
		VoterGender:    strings.TrimSpace(p.VoterGender),
		VoterAgeRange:  strings.TrimSpace(p.VoterAgeRange),
		VoterEducation: strings.TrimSpace(p.VoterEducation),
		VoterIncome:    strings.TrimSpace(p.VoterIncome),
		MainConcern:    concern,
		VoteCertainty:  ParseCertainty(p.VoteCertainty),
	}, nil
}

// SeedVotes generates n random vote intentions scattered within ±0.04° of
// the centre. CPFs are distinct so the batch respects the unique index.
func SeedVotes(rnd *rand.Rand, n int, centerLat, centerLng float64) []models.VoteIntention {
	rows := make([]models.VoteIntention, 0, n)
	for i := 0; i < n; i++ {
		cpf := fmt.Sprintf("%011d", i+1)
		gender := "F"
		if rnd.Float64() < 0.5 {
			gender = "M"
		}
		candidate := models.CandidateGreen
		if rnd.Float64() < 0.5 {
			candidate = models.CandidateBlue
		}

		rows = append(rows, models.VoteIntention{
			CandidateID:    candidate,
			Latitude:       centerLat + rnd.Float64()*2*demoSpreadDeg - demoSpreadDeg,
			Longitude:      centerLng + rnd.Float64()*2*demoSpreadDeg - demoSpreadDeg,
			IPAddress:      DemoIP,
			VoterName:      fmt.Sprintf("%s %d", pick(rnd, demoNames), i+1),
			VoterCPF:       &cpf,
			VoterWhatsapp:  DemoWhatsapp,
			VoterGender:    gender,
			VoterAgeRange:  pick(rnd, demoAgeRanges),
			VoterEducation: pick(rnd, demoEducations),
			VoterIncome:    pick(rnd, demoIncomes),
			MainConcern:    pick(rnd, demoConcerns),
			VoteCertainty:  rnd.IntN(4) + 2,
			IsVolunteer:    rnd.Float64() > 0.7,
		})
	}
	return rows
}

func pick(rnd *rand.Rand, values []string) string {
	return values[rnd.IntN(len(values))]
}

// Resetter replaces the whole vote-intention table.
type Resetter interface {
	ResetVotes(ctx context.Context, rows []models.VoteIntention) error
}

// ResetDemo wipes every vote intention and seeds n demo votes around the centre.
func ResetDemo(ctx context.Context, store Resetter, rnd *rand.Rand, n int, centerLat, centerLng float64) (int, error) {
	rows := SeedVotes(rnd, n, centerLat, centerLng)
	if err := store.ResetVotes(ctx, rows); err != nil {
		return 0, fmt.Errorf("reset demo votes: %w", err)
	}
	return len(rows), nil
}
