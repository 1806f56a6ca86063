package oracle

import (
	"strings"

	"pettingzoo/internal/zoo"
)

// KeywordResolver maps free text onto animal kinds by substring scan.
// It backs the web API's query field and is the deterministic baseline
// the model backends are measured against.
type KeywordResolver struct{}

// Extract returns the first animal kind mentioned in the query,
// scanning kinds in registry order.
func (KeywordResolver) Extract(query string) (zoo.Kind, bool) {
	lower := strings.ToLower(query)
	for _, kind := range zoo.Kinds() {
		if strings.Contains(lower, string(kind)) {
			return kind, true
		}
	}
	return "", false
}
