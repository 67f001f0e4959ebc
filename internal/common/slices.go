package common

// UnknownStr is printed for enum values outside their declared range.
const UnknownStr = "unknown"

// Duplicates returns every element that occurs more than once, in order of
// its second occurrence. Each duplicate is reported once.
func Duplicates[S ~[]E, E comparable](s S) []E {
	seen := make(map[E]int, len(s))

	var dups []E

	for _, e := range s {
		seen[e]++
		if seen[e] == 2 {
			dups = append(dups, e)
		}
	}

	return dups
}

// Map applies fn to every element.
func Map[S ~[]E, E any, R any](s S, fn func(E) R) []R {
	out := make([]R, len(s))
	for i, e := range s {
		out[i] = fn(e)
	}

	return out
}
