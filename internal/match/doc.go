// Package match ranks catalog names against a user supplied name so that
// an unknown chip or board can be reported with "did you mean" suggestions.
//
// Key functions:
//   - NormalizeName: folds case and drops punctuation ("nice!nano v2" -> "nicenanov2")
//   - Levenshtein: edit distance between two strings
//   - Rank / Suggest: ordered candidates for an unknown name
package match
