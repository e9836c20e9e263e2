package fields

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hyperifyio/idscan/internal/record"
)

// Pattern binds a record key to an expression whose first capture group
// carries the field value.
type Pattern struct {
	Key  string
	Expr *regexp.Regexp
}

// Keys lists the pattern-backed record keys in application order.
var Keys = []string{
	record.KeyStudentName,
	record.KeyStudentNumber,
	record.KeyCollege,
	record.KeyYearLevel,
	record.KeyEnrollmentStatus,
}

// \x{0621}-\x{064A} spans the Arabic letters hamza through yeh. \p{Nd} keeps
// digits Unicode-aware so Arabic-Indic numerals still match.
var defaultSources = map[string]string{
	record.KeyStudentName:      `Personal Data\s*(?:لم يحصل علي التطعيم\s*)?([\x{0621}-\x{064A}\s]+)\s*رقم الطالب`,
	record.KeyStudentNumber:    `رقم الطالب:\s*(\p{Nd}+)`,
	record.KeyCollege:          `الكلية:\s*(.*?)\s*\p{Nd}{4}/`,
	record.KeyYearLevel:        `(\p{Nd}{4}/[A-Za-z]+)`,
	record.KeyEnrollmentStatus: `حالة القيد:\s*([\x{0621}-\x{064A}]+)`,
}

// DefaultSource returns the built-in expression for key.
func DefaultSource(key string) (string, bool) {
	s, ok := defaultSources[key]
	return s, ok
}

// Matcher applies an ordered set of patterns to extracted page text.
type Matcher struct {
	patterns []Pattern
}

// NewMatcher compiles the default patterns with overrides applied on top.
// Overrides may only name known keys and must contain a capture group.
func NewMatcher(overrides map[string]string) (*Matcher, error) {
	for k := range overrides {
		if _, ok := defaultSources[k]; !ok {
			return nil, fmt.Errorf("unknown pattern key %q", k)
		}
	}
	m := &Matcher{patterns: make([]Pattern, 0, len(Keys))}
	for _, k := range Keys {
		src := defaultSources[k]
		if o, ok := overrides[k]; ok && strings.TrimSpace(o) != "" {
			src = o
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("pattern %s: %w", k, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("pattern %s: no capture group", k)
		}
		m.patterns = append(m.patterns, Pattern{Key: k, Expr: re})
	}
	return m, nil
}

// Patterns returns the compiled patterns in application order.
func (m *Matcher) Patterns() []Pattern {
	return append([]Pattern(nil), m.patterns...)
}

// Apply stores the trimmed first capture group of every matching pattern into
// rec and returns how many fields were set. A non-match leaves the key absent.
func (m *Matcher) Apply(rec *record.Record, text string) int {
	n := 0
	for _, p := range m.patterns {
		sub := p.Expr.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		rec.Set(p.Key, strings.TrimSpace(sub[1]))
		n++
	}
	return n
}
