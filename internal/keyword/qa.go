package keyword

import (
	"github.com/hyperjump/smartutb/internal/models"
	"go.uber.org/zap"
)

// DefaultCutoff is the minimum similarity for a bank question to be considered.
const DefaultCutoff = 0.6

// Match is the best bank entry for an input.
type Match struct {
	Entry models.QAEntry
	Index int
	Score float64
}

// QAMatcher finds the closest question of the public bank.
type QAMatcher struct {
	entries []models.QAEntry
	cutoff  float64
	cache   *matchCache
	logger  *zap.Logger
}

// QAMatcherOption is a functional option for configuring QAMatcher.
type QAMatcherOption func(*QAMatcher)

// WithCutoff sets the minimum similarity in (0,1]. Other values are ignored.
func WithCutoff(c float64) QAMatcherOption {
	return func(m *QAMatcher) {
		if c > 0 && c <= 1 {
			m.cutoff = c
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) QAMatcherOption {
	return func(m *QAMatcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithCacheSize remembers the results of the last n distinct inputs.
// Zero or negative disables the cache.
func WithCacheSize(n int) QAMatcherOption {
	return func(m *QAMatcher) {
		if n > 0 {
			m.cache = newMatchCache(n)
		} else {
			m.cache = nil
		}
	}
}

// NewQAMatcher returns a matcher over entries. The slice is not copied and
// must not be modified afterwards.
func NewQAMatcher(entries []models.QAEntry, opts ...QAMatcherOption) *QAMatcher {
	m := &QAMatcher{
		entries: entries,
		cutoff:  DefaultCutoff,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Len returns the number of bank entries.
func (m *QAMatcher) Len() int {
	return len(m.entries)
}

// BestMatch returns the entry whose question is most similar to input.
// Entries scoring below the cutoff are discarded; on equal scores the earlier
// entry wins.
func (m *QAMatcher) BestMatch(input string) (*Match, bool) {
	if m.cache == nil {
		return m.bestMatch(input)
	}
	if cached, ok := m.cache.get(input); ok {
		if cached == nil {
			return nil, false
		}
		match := *cached
		return &match, true
	}
	best, ok := m.bestMatch(input)
	m.cache.set(input, best)
	if !ok {
		return nil, false
	}
	match := *best
	return &match, true
}

func (m *QAMatcher) bestMatch(input string) (*Match, bool) {
	if len(m.entries) == 0 {
		return nil, false
	}
	sm := NewSequenceMatcher(input)
	var best *Match
	for i, e := range m.entries {
		if sm.RealQuickRatio(e.Question) < m.cutoff || sm.QuickRatio(e.Question) < m.cutoff {
			continue
		}
		score := sm.Ratio(e.Question)
		if score < m.cutoff {
			continue
		}
		if best == nil || score > best.Score {
			best = &Match{Entry: e, Index: i, Score: score}
		}
	}
	if best == nil {
		return nil, false
	}
	m.logger.Debug("public bank match",
		zap.String("question", best.Entry.Question),
		zap.Int("index", best.Index),
		zap.Float64("score", best.Score),
	)
	return best, true
}

// Answer returns the answer of the best match. An entry with an empty answer
// counts as no match.
func (m *QAMatcher) Answer(input string) (string, bool) {
	match, ok := m.BestMatch(input)
	if !ok || match.Entry.Answer == "" {
		return "", false
	}
	return match.Entry.Answer, true
}
