package dashboard

type Summary struct {
	Total      int              `json:"total"`
	Source     int              `json:"source_total"`
	Leader     Leader           `json:"leader"`
	Candidates []CandidateCount `json:"candidates"`
	Concerns   []ConcernCount   `json:"pain_points"`
	Records    []Record         `json:"records"`
}

// Summarize filters the source list and computes every KPI over the result.
// A zero pair is replaced by the two most voted candidates.
func Summarize(records []Record, f Filters, pair Pair, seed ...string) Summary {
	filtered := Apply(records, f)
	candidates := CountCandidates(filtered, seed...)
	if pair == (Pair{}) {
		pair = TopPair(candidates)
	}
	return Summary{
		Total:      len(filtered),
		Source:     len(records),
		Leader:     ComputeLeader(filtered, pair),
		Candidates: candidates,
		Concerns:   RankConcerns(filtered),
		Records:    filtered,
	}
}
