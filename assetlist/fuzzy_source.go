package assetlist

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// FuzzySource adapts a merged entry set to the fuzzy matcher, matching on
// code, domain and identifier at once.
type FuzzySource []Entry

func (self FuzzySource) Len() int {
	return len(self)
}

func (self FuzzySource) String(i int) string {
	e := self[i]
	id := e.ContractID
	if e.Issuer != "" {
		id = e.Issuer
	}
	return fmt.Sprintf("%s_%s_%s", e.Code, strings.Replace(e.Domain, " ", "_", -1), id)
}

// Suggest returns up to limit entries from entries that fuzzily match
// input. Used by the CLI as a "did you mean" source when a query resolves
// to nothing.
func Suggest(input string, entries []Entry, limit int) []Entry {
	source := FuzzySource(entries)
	matches := fuzzy.FindFrom(strings.Replace(input, " ", "_", -1), source)
	result := []Entry{}
	for i := 0; i < limit; i++ {
		if i < len(matches) {
			result = append(result, source[matches[i].Index])
		} else {
			break
		}
	}
	return result
}
