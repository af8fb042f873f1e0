package core

import "strings"

// keywordRule maps a description keyword to its canonical series label.
type keywordRule struct {
	keyword string
	label   string
}

// normalizeTable is the fixed, ordered keyword table used to collapse
// free-text descriptions into canonical series keys. Order is authoritative:
// when a description contains several keywords, the earliest entry wins.
var normalizeTable = []keywordRule{
	{"rent", "rent"},
	{"salary", "salary"},
	{"pad", "period supplies"},
	{"period", "period supplies"},
	{"spotify", "spotify"},
	{"netflix", "netflix"},
	{"lidl", "groceries"},
	{"billa", "groceries"},
	{"grocer", "groceries"},
	{"electric", "electric bill"},
	{"internet", "internet"},
}

// Normalize maps a raw description to a canonical series key. The input is
// lower-cased and matched by substring against the keyword table; if nothing
// matches, the lower-cased description itself becomes the (singleton) key.
// Pure and total: same input always yields the same output.
func Normalize(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range normalizeTable {
		if strings.Contains(lower, rule.keyword) {
			return rule.label
		}
	}
	return lower
}
