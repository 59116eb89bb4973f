// Package academic answers student questions from the academic facts record
// using an ordered list of keyword rules.
package academic

import (
	"strings"

	"github.com/hyperjump/smartutb/internal/models"
	"go.uber.org/zap"
)

// notAvailable is shown for missing scalar fields.
const notAvailable = "N/A"

// Result is the answer produced by the first matching rule.
type Result struct {
	Rule string
	Text string
}

// rule fires when any of its keywords is a substring of the lower-cased input.
type rule struct {
	name     string
	keywords []string
	answer   func(input string, facts *models.AcademicFacts) string
}

func (r rule) matches(input string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(input, kw) {
			return true
		}
	}
	return false
}

// rules are evaluated in order; the first match wins and later rules are skipped.
var rules = []rule{
	{name: "gpa", keywords: []string{"ipk", "nilai"}, answer: answerGPA},
	{name: "advisor", keywords: []string{"dosen wali"}, answer: answerAdvisor},
	{name: "billing", keywords: []string{"tagihan", "biaya", "bayar"}, answer: answerBilling},
	{name: "schedule", keywords: []string{"jadwal", "kuliah"}, answer: answerSchedule},
	{name: "leave", keywords: []string{"cuti"}, answer: answerLeave},
	{name: "scholarship", keywords: []string{"beasiswa"}, answer: answerScholarship},
}

// Matcher evaluates the rule list against one academic record.
type Matcher struct {
	facts  *models.AcademicFacts
	logger *zap.Logger
}

// NewMatcher returns a matcher over facts. A nil record behaves as an empty one.
func NewMatcher(facts *models.AcademicFacts, logger *zap.Logger) *Matcher {
	if facts == nil {
		facts = &models.AcademicFacts{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{facts: facts, logger: logger}
}

// Match runs the rules against input, which must already be lower-cased.
func (m *Matcher) Match(input string) (Result, bool) {
	for _, r := range rules {
		if !r.matches(input) {
			continue
		}
		text := r.answer(input, m.facts)
		m.logger.Debug("academic rule matched", zap.String("rule", r.name))
		if text == "" {
			return Result{}, false
		}
		return Result{Rule: r.name, Text: text}, true
	}
	return Result{}, false
}

// Answer returns only the text of Match.
func (m *Matcher) Answer(input string) (string, bool) {
	res, ok := m.Match(input)
	return res.Text, ok
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
