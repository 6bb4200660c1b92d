package brand

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCutoff = 60.0
	DefaultTenant = "FBAFBA"

	// tokenWeight discounts a match on a single word of the input against a
	// match on the whole input.
	tokenWeight = 0.9
)

// DefaultTable maps retailer display names to tenant codes.
var DefaultTable = map[string]string{
	"Nike": "NKENKE",
}

// Matcher resolves a free-text store name to a tenant code.
type Matcher struct {
	table         map[string]string
	cutoff        float64
	defaultTenant string
}

func NewMatcher(table map[string]string, cutoff float64, defaultTenant string) *Matcher {
	if len(table) == 0 {
		table = DefaultTable
	}
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}
	if defaultTenant == "" {
		defaultTenant = DefaultTenant
	}
	return &Matcher{table: table, cutoff: cutoff, defaultTenant: defaultTenant}
}

// LoadTable reads a YAML mapping of retailer name to tenant code.
func LoadTable(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read brand table: %w", err)
	}
	table := make(map[string]string)
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse brand table: %w", err)
	}
	return table, nil
}

// TenantCode returns the tenant of the best scoring retailer, or the default
// tenant when nothing reaches the cutoff.
func (m *Matcher) TenantCode(name string) string {
	code, score := m.best(name)
	if score < m.cutoff {
		return m.defaultTenant
	}
	return code
}

func (m *Matcher) best(name string) (string, float64) {
	input := normalize(name)
	if input == "" {
		return "", 0
	}
	var tokens []string
	for _, f := range strings.Fields(name) {
		if t := normalize(f); t != "" {
			tokens = append(tokens, t)
		}
	}

	// stable iteration so ties resolve the same way every time
	names := make([]string, 0, len(m.table))
	for n := range m.table {
		names = append(names, n)
	}
	sort.Strings(names)

	bestCode, bestScore := "", 0.0
	for _, n := range names {
		candidate := normalize(n)
		score := ratio(input, candidate)
		for _, t := range tokens {
			if s := ratio(t, candidate) * tokenWeight; s > score {
				score = s
			}
		}
		if score > bestScore {
			bestCode, bestScore = m.table[n], score
		}
	}
	return bestCode, bestScore
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ratio is a 0..100 similarity based on edit distance.
func ratio(a, b string) float64 {
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return float64(total-dist) / float64(total) * 100
}
