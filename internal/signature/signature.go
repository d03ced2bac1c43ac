// Package signature extracts a coarse event signature from news text: known
// entity and action terms, monetary amounts, and a stock code. The signature
// is a flat token set used to match paraphrased retellings of one event.
//
// This is a rule-based extractor scoped to the maintained term lists below,
// not a general NER system. Extending coverage means extending the lists.
package signature

import (
	"regexp"
	"strings"
)

var (
	moneyTermPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(亿元|亿|万元|万)\s*(?:人民币|元)?`)
	bareYiPattern    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*亿`)
	stockCodePattern = regexp.MustCompile(`\b\d{6}\b`)
	digitPattern     = regexp.MustCompile(`\d`)
	unitPattern      = regexp.MustCompile(`[亿万]`)
	codeTokenPattern = regexp.MustCompile(`^\d{6}$`)
)

// Config holds the maintained term lists. Counterparties, Actions, and
// Themes must each be a subset of Entities for their tokens to ever appear
// in an extracted signature.
type Config struct {
	Entities       []string
	Counterparties []string
	Actions        []string
	Themes         []string
}

// DefaultConfig returns the term lists for the currently tracked deals.
func DefaultConfig() Config {
	return Config{
		Entities: []string{
			"老板电器",
			"优特智厨",
			"UTCOOK",
			"UTcook",
			"JIN XIAO",
			"珠海优特智厨",
			"投资合作意向书",
			"意向书",
			"战略投资",
			"增资",
			"投资",
			"炒菜机器人",
			"智能餐饮",
		},
		Counterparties: []string{"优特智厨", "UTCOOK", "UTcook", "珠海优特智厨"},
		Actions:        []string{"增资", "投资合作意向书", "意向书", "战略投资", "投资"},
		Themes:         []string{"炒菜机器人", "智能餐饮"},
	}
}

// Extractor extracts event signatures according to its Config.
type Extractor struct {
	cfg Config
}

func NewExtractor(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Terms returns the extractor's configured term lists.
func (e *Extractor) Terms() Config {
	return e.cfg
}

// Extract returns the event signature token set for text: entity terms that
// occur as case-insensitive substrings, normalized money terms, and a single
// 6-digit stock code when present.
func (e *Extractor) Extract(text string) map[string]struct{} {
	terms := make(map[string]struct{})
	if strings.TrimSpace(text) == "" {
		return terms
	}

	lowered := strings.ToLower(text)
	for _, entity := range e.cfg.Entities {
		if strings.Contains(lowered, strings.ToLower(entity)) {
			terms[entity] = struct{}{}
		}
	}

	for term := range MoneyTerms(text) {
		terms[term] = struct{}{}
	}

	if code := stockCodePattern.FindString(text); code != "" {
		terms[code] = struct{}{}
	}

	return terms
}

// MoneyTerms extracts normalized monetary amount tokens such as "1亿元" or
// "5000万". A bare "<number>亿" fallback catches amounts written without a
// currency suffix.
func MoneyTerms(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, m := range moneyTermPattern.FindAllStringSubmatch(text, -1) {
		out[m[1]+m[2]] = struct{}{}
	}
	for _, m := range bareYiPattern.FindAllStringSubmatch(text, -1) {
		out[m[1]+"亿"] = struct{}{}
	}
	return out
}

// HasMoneyTerm reports whether any token in the signature looks like a
// monetary amount (a digit plus a 亿/万 unit).
func HasMoneyTerm(sig map[string]struct{}) bool {
	for token := range sig {
		if unitPattern.MatchString(token) && digitPattern.MatchString(token) {
			return true
		}
	}
	return false
}

// HasStockCode reports whether the signature contains a 6-digit code token.
func HasStockCode(sig map[string]struct{}) bool {
	for token := range sig {
		if codeTokenPattern.MatchString(token) {
			return true
		}
	}
	return false
}

// HasAny reports whether the signature contains any of the given terms.
func HasAny(sig map[string]struct{}, terms []string) bool {
	for _, term := range terms {
		if _, ok := sig[term]; ok {
			return true
		}
	}
	return false
}

// Intersection returns the tokens present in both signatures.
func Intersection(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for x := range a {
		if _, ok := b[x]; ok {
			out[x] = struct{}{}
		}
	}
	return out
}
