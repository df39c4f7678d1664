package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/voxgeo/server/analytics"
)

type LeaderState string

const (
	LeaderNone   LeaderState = "none"
	LeaderSingle LeaderState = "leader"
	LeaderTie    LeaderState = "tie"
)

// ConcernFallback labels records without a main concern.
const ConcernFallback = "Outros"

type Leader struct {
	State     LeaderState `json:"state"`
	Candidate string      `json:"candidate,omitempty"`
	Count     int         `json:"count"`
	Dominance float64     `json:"dominance"`
}

type CandidateCount struct {
	Candidate string `json:"candidate"`
	Count     int    `json:"count"`
}

type ConcernCount struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"pct"`
}

// Pair is the two candidates the leader is decided between.
type Pair [2]string

// LegacyPair compares the two enumerated vote-intention candidates.
var LegacyPair = Pair{"1", "2"}

// ComputeLeader reports a strict winner between the pair, a tie on equal
// counts, or none for an empty set.
func ComputeLeader(records []Record, pair Pair) Leader {
	total := len(records)
	if total == 0 {
		return Leader{State: LeaderNone}
	}
	a, b := 0, 0
	for _, r := range records {
		switch r.Candidate {
		case pair[0]:
			a++
		case pair[1]:
			b++
		}
	}
	switch {
	case a > b:
		return Leader{State: LeaderSingle, Candidate: pair[0], Count: a, Dominance: percent(a, total)}
	case b > a:
		return Leader{State: LeaderSingle, Candidate: pair[1], Count: b, Dominance: percent(b, total)}
	}
	return Leader{State: LeaderTie, Count: a, Dominance: percent(a, total)}
}

// CountCandidates tallies candidates in first-seen order; seed entries are
// always present, in front, even with zero votes.
func CountCandidates(records []Record, seed ...string) []CandidateCount {
	out := make([]CandidateCount, 0, len(seed))
	index := map[string]int{}
	for _, s := range seed {
		if _, ok := index[s]; ok {
			continue
		}
		index[s] = len(out)
		out = append(out, CandidateCount{Candidate: s})
	}
	for _, r := range records {
		i, ok := index[r.Candidate]
		if !ok {
			i = len(out)
			index[r.Candidate] = i
			out = append(out, CandidateCount{Candidate: r.Candidate})
		}
		out[i].Count++
	}
	return out
}

// TopPair picks the two most voted candidates; ties keep first-seen order.
// Respondents without a candidate answer never make the pair.
func TopPair(counts []CandidateCount) Pair {
	sorted := make([]CandidateCount, 0, len(counts))
	for _, c := range counts {
		if c.Candidate != analytics.PlaceholderCandidate {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	var p Pair
	for i := 0; i < len(p) && i < len(sorted); i++ {
		p[i] = sorted[i].Candidate
	}
	return p
}

// RankConcerns sorts concerns by count, descending and stable.
func RankConcerns(records []Record) []ConcernCount {
	out := []ConcernCount{}
	index := map[string]int{}
	for _, r := range records {
		name := r.MainConcern
		if name == "" {
			name = ConcernFallback
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, ConcernCount{Name: name})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	for i := range out {
		out[i].Percent = percent(out[i].Count, len(records))
	}
	return out
}

// percent is rounded to a whole number.
func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(n)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(total)), 4).
		Round(0).
		InexactFloat64()
}
