package completion

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MaxDistance is the largest edit distance Similar reports
const MaxDistance = 3

// levenshtein calculates the edit distance between two strings, ignoring case
func levenshtein(a, b string) int {
	return fuzzy.LevenshteinDistance(strings.ToLower(a), strings.ToLower(b))
}

type candidate struct {
	name     string
	distance int
}

// Similar returns up to maxResults candidates within MaxDistance of input,
// closest first
func Similar(input string, candidates []string, maxResults int) []string {
	var found []candidate
	for _, c := range candidates {
		d := levenshtein(input, c)
		if d > 0 && d <= MaxDistance {
			found = append(found, candidate{name: c, distance: d})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].distance != found[j].distance {
			return found[i].distance < found[j].distance
		}
		return found[i].name < found[j].name
	})

	if maxResults > 0 && len(found) > maxResults {
		found = found[:maxResults]
	}

	out := make([]string, 0, len(found))
	for _, c := range found {
		out = append(out, c.name)
	}
	return out
}
