// Package analytics turns survey responses into dashboard material: per
// question charts, a geo point list and the fixed voter-profile shape.
package analytics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voxgeo/server/models"
)

type ChartType string

const (
	ChartPie  ChartType = "pie"
	ChartBar  ChartType = "bar"
	ChartList ChartType = "list"
)

// recentTextAnswers caps the verbatim list shown for free-text questions.
const recentTextAnswers = 5

var scaleLabels = []string{"1", "2", "3", "4", "5"}

// Chart is the render-ready aggregate of one question. Data holds []int
// counts for pie and bar charts and the raw answers for lists.
type Chart struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Type    ChartType `json:"type"`
	Labels  []string  `json:"labels"`
	Data    any       `json:"data"`
	Average *float64  `json:"average,omitempty"`
	Valid   *int      `json:"valid,omitempty"`
}

type GeoPoint struct {
	Lat     float64        `json:"lat"`
	Lng     float64        `json:"lng"`
	Summary map[string]any `json:"summary"`
}

type Meta struct {
	SurveyID    string    `json:"survey_id"`
	Title       string    `json:"title"`
	Total       int       `json:"total"`
	LastUpdated time.Time `json:"last_updated"`
}

type Report struct {
	Meta    Meta       `json:"meta"`
	GeoData []GeoPoint `json:"geo_data"`
	Charts  []Chart    `json:"charts"`
}

// Build aggregates responses against the survey schema. Responses are
// expected newest first, as the store returns them.
func Build(survey models.Survey, responses []models.SurveyResponse, now time.Time) Report {
	report := Report{
		Meta: Meta{
			SurveyID:    survey.ID,
			Title:       survey.Title,
			Total:       len(responses),
			LastUpdated: now.UTC(),
		},
		GeoData: []GeoPoint{},
		Charts:  []Chart{},
	}

	for _, r := range responses {
		if r.Latitude == nil || r.Longitude == nil || !finite(*r.Latitude) || !finite(*r.Longitude) {
			continue
		}
		summary := map[string]any(r.RespondentData)
		if summary == nil {
			summary = map[string]any{}
		}
		report.GeoData = append(report.GeoData, GeoPoint{Lat: *r.Latitude, Lng: *r.Longitude, Summary: summary})
	}

	answers := CollectAnswers(survey.QuestionsSchema, responses)
	for _, q := range survey.QuestionsSchema {
		if chart, ok := BuildChart(q, answers[q.Label]); ok {
			report.Charts = append(report.Charts, chart)
		}
	}
	return report
}

// CollectAnswers groups answered values by question label, keeping the
// response order. Unanswered questions map to an empty slice.
func CollectAnswers(schema []models.Question, responses []models.SurveyResponse) map[string][]any {
	out := make(map[string][]any, len(schema))
	for _, q := range schema {
		out[q.Label] = []any{}
	}
	for _, r := range responses {
		for label := range out {
			v, ok := r.RespondentData[label]
			if !ok || !answered(v) {
				continue
			}
			out[label] = append(out[label], v)
		}
	}
	return out
}

// BuildChart returns false only for question types that have no chart.
func BuildChart(q models.Question, answers []any) (Chart, bool) {
	chart := Chart{ID: q.ID, Title: q.Label}

	switch q.Type {
	case models.QuestionSelect, models.QuestionRadio, models.QuestionDropdown:
		labels, counts := Tally(answers)
		chart.Type = ChartPie
		chart.Labels = labels
		chart.Data = counts
	case models.QuestionScale:
		buckets, avg, valid := Scale(answers)
		chart.Type = ChartBar
		chart.Labels = append([]string(nil), scaleLabels...)
		chart.Data = buckets[:]
		chart.Average = &avg
		chart.Valid = &valid
	case models.QuestionText:
		n := min(len(answers), recentTextAnswers)
		list := make([]any, n)
		copy(list, answers[:n])
		chart.Type = ChartList
		chart.Data = list
	default:
		return Chart{}, false
	}
	return chart, true
}

// Tally counts answers by their string form, in first-seen order.
func Tally(answers []any) ([]string, []int) {
	labels := []string{}
	counts := []int{}
	index := map[string]int{}
	for _, a := range answers {
		key := AnswerString(a)
		i, ok := index[key]
		if !ok {
			i = len(labels)
			index[key] = i
			labels = append(labels, key)
			counts = append(counts, 0)
		}
		counts[i]++
	}
	return labels, counts
}

// Scale buckets answers into 1..5 and returns the mean of the valid ones
// rounded to one decimal (0 when none are valid).
func Scale(answers []any) (buckets [5]int, avg float64, valid int) {
	sum := 0
	for _, a := range answers {
		v, ok := ScaleValue(a)
		if !ok {
			continue
		}
		buckets[v-1]++
		sum += v
		valid++
	}
	if valid == 0 {
		return buckets, 0, 0
	}
	avg = decimal.NewFromInt(int64(sum)).
		Div(decimal.NewFromInt(int64(valid))).
		Round(1).
		InexactFloat64()
	return buckets, avg, valid
}

// ScaleValue coerces a raw answer to an integer in 1..5.
func ScaleValue(a any) (int, bool) {
	var f float64
	switch v := a.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			f = float64(n)
			break
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if !finite(f) {
		return 0, false
	}
	n := int(math.Trunc(f))
	if n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

// AnswerString renders a JSON-decoded answer the way it was submitted.
func AnswerString(a any) string {
	switch v := a.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			parts = append(parts, AnswerString(p))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(a)
}

func answered(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	}
	return true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
