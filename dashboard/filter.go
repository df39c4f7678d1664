package dashboard

import "strings"

// Filters holds the active predicates. An empty value matches everything.
type Filters struct {
	Candidate string `form:"candidate" json:"candidate"`
	Gender    string `form:"gender" json:"gender"`
	AgeRange  string `form:"age" json:"age"`
	Concern   string `form:"concern" json:"concern"`
	Education string `form:"education" json:"education"`
	Income    string `form:"income" json:"income"`
	Search    string `form:"q" json:"q"`
}

func (f Filters) Empty() bool {
	return f == Filters{}
}

// Match applies every predicate with logical AND.
func (f Filters) Match(r Record) bool {
	if f.Candidate != "" && r.Candidate != f.Candidate {
		return false
	}
	if f.Gender != "" && r.VoterGender != f.Gender {
		return false
	}
	if f.AgeRange != "" && r.VoterAgeRange != f.AgeRange {
		return false
	}
	if f.Concern != "" && r.MainConcern != f.Concern {
		return false
	}
	if f.Education != "" && (r.VoterEducation == "" || !strings.Contains(r.VoterEducation, f.Education)) {
		return false
	}
	if f.Income != "" && (r.VoterIncome == "" || !strings.Contains(r.VoterIncome, f.Income)) {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.VoterName), term) && !strings.Contains(r.VoterCPF, term) {
			return false
		}
	}
	return true
}

// Apply returns the matching records in their original order.
func Apply(records []Record, f Filters) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
