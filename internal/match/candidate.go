package match

import (
	"sort"
	"strings"
)

// DefaultMinScore is the lowest similarity that still produces a suggestion.
const DefaultMinScore = 0.5

// Candidate is one catalog name scored against the requested name.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is ordered best first.
type CandidateList []Candidate

// Rank scores every name against want. Prefix matches on the normalized
// form are boosted so "stm32f4" ranks "stm32f401cc" and "stm32f411ce" first.
func Rank(want string, names []string) CandidateList {
	normWant := NormalizeName(want)

	list := make(CandidateList, 0, len(names))

	for _, name := range names {
		norm := NormalizeName(name)

		score := Similarity(normWant, norm)
		if normWant != "" && (strings.HasPrefix(norm, normWant) || strings.HasPrefix(normWant, norm)) {
			score = max(score, 0.8)
		}

		list = append(list, Candidate{Name: name, Score: score})
	}

	sort.Sort(list)

	return list
}

// Suggest returns at most n names scoring at least DefaultMinScore.
func Suggest(want string, names []string, n int) []string {
	var out []string

	for _, c := range Rank(want, names).Top(n) {
		if c.Score < DefaultMinScore {
			break
		}

		out = append(out, c.Name)
	}

	return out
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Higher score first, then alphabetical for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the first n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}
