package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/voxgeo/server/models"
)

func ptr(f float64) *float64 { return &f }

func testSurvey() models.Survey {
	return models.Survey{
		ID:    "s-1",
		Title: "Pesquisa Centro",
		QuestionsSchema: datatypes.JSONSlice[models.Question]{
			{ID: "q1", Type: models.QuestionSelect, Label: "Em quem você vota?", Options: []string{"A", "B"}},
			{ID: "q2", Type: models.QuestionScale, Label: "Nota do bairro"},
			{ID: "q3", Type: models.QuestionText, Label: "Comentário"},
			{ID: "q4", Type: models.QuestionRadio, Label: "Sexo"},
		},
	}
}

func TestScaleBucketsAndAverage(t *testing.T) {
	buckets, avg, valid := Scale([]any{1.0, "3", 5.0, "bad", 7.0})

	require.Equal(t, [5]int{1, 0, 1, 0, 1}, buckets)
	require.Equal(t, 3.0, avg)
	require.Equal(t, 3, valid)
}

func TestScaleAllInvalid(t *testing.T) {
	buckets, avg, valid := Scale([]any{"x", 0.0, 6.0, nil, true, -1.0})

	require.Equal(t, [5]int{}, buckets)
	require.Equal(t, 0.0, avg)
	require.Equal(t, 0, valid)
}

func TestScaleSumMatchesValid(t *testing.T) {
	answers := []any{1.0, 2.0, 2.0, "4", 4.9, 5.0, "5.5", "0", 9.0}
	buckets, avg, valid := Scale(answers)

	sum := 0
	for _, b := range buckets {
		sum += b
	}
	require.Equal(t, valid, sum)
	require.Equal(t, 7, valid)
	require.Equal(t, [5]int{1, 2, 0, 2, 2}, buckets)
	require.Equal(t, 3.3, avg)
}

func TestScaleAverageRoundsOnce(t *testing.T) {
	answers := make([]any, 0, 1001)
	for i := 0; i < 50; i++ {
		answers = append(answers, 3.0)
	}
	for i := 0; i < 951; i++ {
		answers = append(answers, 2.0)
	}

	buckets, avg, valid := Scale(answers)
	require.Equal(t, 1001, valid)
	require.Equal(t, [5]int{0, 951, 50, 0, 0}, buckets)
	require.Equal(t, 2.0, avg)
}

func TestScaleValue(t *testing.T) {
	testCases := []struct {
		Input any
		Value int
		OK    bool
	}{
		{Input: 1.0, Value: 1, OK: true},
		{Input: 3.7, Value: 3, OK: true},
		{Input: "2", Value: 2, OK: true},
		{Input: " 4 ", Value: 4, OK: true},
		{Input: "4.2", Value: 4, OK: true},
		{Input: 5, Value: 5, OK: true},
		{Input: 0.5, OK: false},
		{Input: "abc", OK: false},
		{Input: 6.0, OK: false},
		{Input: nil, OK: false},
		{Input: map[string]any{}, OK: false},
	}

	for _, testCase := range testCases {
		v, ok := ScaleValue(testCase.Input)
		require.Equal(t, testCase.OK, ok, "%v", testCase.Input)
		require.Equal(t, testCase.Value, v, "%v", testCase.Input)
	}
}

func TestTallyKeepsFirstSeenOrder(t *testing.T) {
	labels, counts := Tally([]any{"B", "A", "B", 2.0, "2"})

	require.Equal(t, []string{"B", "A", "2"}, labels)
	require.Equal(t, []int{2, 1, 2}, counts)
}

func TestBuildChartsForEveryQuestion(t *testing.T) {
	report := Build(testSurvey(), nil, time.Now())

	require.Equal(t, 0, report.Meta.Total)
	require.Empty(t, report.GeoData)
	require.NotNil(t, report.GeoData)
	require.Len(t, report.Charts, 4)

	require.Equal(t, ChartPie, report.Charts[0].Type)
	require.Equal(t, []string{}, report.Charts[0].Labels)
	require.Equal(t, []int{}, report.Charts[0].Data)

	require.Equal(t, ChartBar, report.Charts[1].Type)
	require.Equal(t, []int{0, 0, 0, 0, 0}, report.Charts[1].Data)
	require.Equal(t, 0.0, *report.Charts[1].Average)

	require.Equal(t, ChartList, report.Charts[2].Type)
	require.Equal(t, []any{}, report.Charts[2].Data)
}

func TestEmptyChoiceChartKeepsLabels(t *testing.T) {
	chart, ok := BuildChart(models.Question{ID: "q1", Type: models.QuestionRadio, Label: "Sexo"}, nil)
	require.True(t, ok)

	raw, err := json.Marshal(chart)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"q1","title":"Sexo","type":"pie","labels":[],"data":[]}`, string(raw))
}

func TestBuildReport(t *testing.T) {
	responses := []models.SurveyResponse{
		{ID: "r5", RespondentData: datatypes.JSONMap{"Em quem você vota?": "A", "Nota do bairro": 5.0, "Comentário": "c5"}, Latitude: ptr(-3.1), Longitude: ptr(-60.0)},
		{ID: "r4", RespondentData: datatypes.JSONMap{"Em quem você vota?": "B", "Nota do bairro": "bad", "Comentário": "c4"}},
		{ID: "r3", RespondentData: datatypes.JSONMap{"Em quem você vota?": "A", "Nota do bairro": 3.0, "Comentário": "c3"}, Latitude: ptr(-3.2)},
		{ID: "r2", RespondentData: datatypes.JSONMap{"Nota do bairro": 1.0, "Comentário": "c2", "Extra": "x"}},
		{ID: "r1", RespondentData: datatypes.JSONMap{"Nota do bairro": 7.0, "Comentário": "c1"}},
		{ID: "r0", RespondentData: datatypes.JSONMap{"Comentário": "c0", "Em quem você vota?": ""}},
	}
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	report := Build(testSurvey(), responses, now)

	require.Equal(t, "Pesquisa Centro", report.Meta.Title)
	require.Equal(t, 6, report.Meta.Total)
	require.Equal(t, now, report.Meta.LastUpdated)

	require.Len(t, report.GeoData, 1)
	require.Equal(t, -3.1, report.GeoData[0].Lat)
	require.Equal(t, "A", report.GeoData[0].Summary["Em quem você vota?"])

	pie := report.Charts[0]
	require.Equal(t, []string{"A", "B"}, pie.Labels)
	require.Equal(t, []int{2, 1}, pie.Data)

	bar := report.Charts[1]
	require.Equal(t, []int{1, 0, 1, 0, 1}, bar.Data)
	require.Equal(t, 3.0, *bar.Average)
	require.Equal(t, 3, *bar.Valid)

	list := report.Charts[2]
	require.Equal(t, []any{"c5", "c4", "c3", "c2", "c1"}, list.Data)

	radio := report.Charts[3]
	require.Equal(t, ChartPie, radio.Type)
	require.Equal(t, []int{}, radio.Data)
}

func TestMatchFieldPriority(t *testing.T) {
	testCases := []struct {
		Key   string
		Field ProfileField
		OK    bool
	}{
		{Key: "Seu VOTO", Field: FieldCandidate, OK: true},
		{Key: "Qual sua escolha", Field: FieldCandidate, OK: true},
		{Key: "OPÇÃO preferida", Field: FieldCandidate, OK: true},
		{Key: "Nome do candidato", Field: FieldCandidate, OK: true},
		{Key: "Seu nome", Field: FieldName, OK: true},
		{Key: "Maior problema do bairro", Field: FieldConcern, OK: true},
		{Key: "O que precisa de melhoria?", Field: FieldConcern, OK: true},
		{Key: "Quantos anos você tem", Field: FieldAge, OK: true},
		{Key: "Faixa de renda", Field: FieldIncome, OK: true},
		{Key: "Quanto ganha", Field: FieldIncome, OK: true},
		{Key: "Gênero", Field: FieldGender, OK: true},
		{Key: "SEXO", Field: FieldGender, OK: true},
		{Key: "Bairro", OK: false},
		{Key: "Gender", OK: false},
	}

	for _, testCase := range testCases {
		field, ok := MatchField(testCase.Key)
		require.Equal(t, testCase.OK, ok, testCase.Key)
		if ok {
			require.Equal(t, testCase.Field, field, testCase.Key)
		}
	}
}

func TestAdaptProfileDefaults(t *testing.T) {
	p := AdaptProfile(models.SurveyResponse{ID: "r1", SurveyID: "s-1", RespondentData: datatypes.JSONMap{"Bairro": "Centro"}})

	require.Equal(t, PlaceholderCandidate, p.CandidateID)
	require.Equal(t, PlaceholderName, p.VoterName)
	require.Equal(t, PlaceholderUnknown, p.MainConcern)
	require.Equal(t, PlaceholderUnknown, p.VoterAgeRange)
	require.Equal(t, PlaceholderUnknown, p.VoterIncome)
	require.Equal(t, PlaceholderUnknown, p.VoterGender)
	require.Equal(t, "Centro", p.RespondentData["Bairro"])
}

func TestAdaptProfileMapsFields(t *testing.T) {
	p := AdaptProfile(models.SurveyResponse{
		ID: "r1",
		RespondentData: datatypes.JSONMap{
			"Candidato":          "Azul",
			"Nome completo":      "Ana",
			"Principal problema": "Saúde",
			"Idade":              34.0,
			"Renda familiar":     "1 a 3 SM",
			"Sexo":               "F",
		},
		Latitude: ptr(-3.0),
	})

	require.Equal(t, "Azul", p.CandidateID)
	require.Equal(t, "Ana", p.VoterName)
	require.Equal(t, "Saúde", p.MainConcern)
	require.Equal(t, "34", p.VoterAgeRange)
	require.Equal(t, "1 a 3 SM", p.VoterIncome)
	require.Equal(t, "F", p.VoterGender)
	require.Equal(t, -3.0, *p.Latitude)
}

func TestAdaptProfileIsDeterministic(t *testing.T) {
	data := datatypes.JSONMap{
		"Voto":            "B",
		"Candidato":       "A",
		"Escolha final":   "C",
		"Nome":            "",
		"Nome social":     "Bia",
		"Sua idade":       "25-44",
		"Quantos anos":    "30",
		"Ordem aleatória": "x",
	}

	first := AdaptProfile(models.SurveyResponse{RespondentData: data})
	for i := 0; i < 50; i++ {
		again := AdaptProfile(models.SurveyResponse{RespondentData: data})
		require.Equal(t, first, again)
	}
	// sorted keys: "Candidato" < "Escolha final" < "Voto"
	require.Equal(t, "A", first.CandidateID)
	require.Equal(t, "Bia", first.VoterName)
	require.Equal(t, "30", first.VoterAgeRange)
}

func TestLegacyCharts(t *testing.T) {
	votes := []models.VoteIntention{
		{ID: 2, CandidateID: 2, VoteCertainty: 5, MainConcern: "Saude", Latitude: -3.1, Longitude: -60},
		{ID: 1, CandidateID: 1, VoteCertainty: 3, Latitude: -3.2, Longitude: -60.1},
	}

	report := Build(LegacySurvey(), LegacyResponses(votes), time.Now())

	require.Equal(t, models.LegacySurveyID, report.Meta.SurveyID)
	require.Equal(t, 2, report.Meta.Total)
	require.Len(t, report.GeoData, 2)
	require.Equal(t, []string{"2", "1"}, report.Charts[0].Labels)
	require.Equal(t, []string{"Saude"}, report.Charts[1].Labels)
	require.Equal(t, 4.0, *report.Charts[2].Average)
}
