// Package history keeps per-user chat sessions in a single document that is
// read and rewritten in full on every change.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/smartutb/internal/models"
	"github.com/hyperjump/smartutb/internal/storage"
	"github.com/hyperjump/smartutb/pkg/utils"
	"go.uber.org/zap"
)

// DefaultKey is the document key of the history document.
const DefaultKey = "history_sessions.json"

// DefaultTitleLength is the number of runes of the first message kept in a title.
const DefaultTitleLength = 30

// TimestampLayout is the layout of ChatSession.LastUpdated.
const TimestampLayout = "2006-01-02 15:04"

// ErrSessionNotFound is returned when the user or the session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// Store is the history repository. Append, ListSessions and GetSessionDetail
// are serialised by one mutex so a load-modify-save cycle is never interleaved
// with another within the process.
type Store struct {
	mu          sync.Mutex
	backend     storage.Store
	key         string
	titleLength int
	now         func() time.Time
	logger      *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the document key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithTitleLength sets how many runes of the first message form the title.
func WithTitleLength(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.titleLength = n
		}
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = utils.OrNop(logger)
	}
}

// NewStore returns a history store persisting through backend.
func NewStore(backend storage.Store, opts ...Option) *Store {
	s := &Store{
		backend:     backend,
		key:         DefaultKey,
		titleLength: DefaultTitleLength,
		now:         time.Now,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string {
	return uuid.New().String()
}

// Append records one exchange. The user's history and the session are created
// when missing; a new session goes to the front of the user's list.
// A backend read failure is returned and nothing is written.
func (s *Store) Append(ctx context.Context, nim, sessionID, userText, botText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	idx := -1
	var user models.UserHistory
	for i, raw := range records {
		if u, ok := s.decodeUser(raw); ok && u.NIM == nim {
			idx, user = i, u
			break
		}
	}
	if idx < 0 {
		user = models.UserHistory{NIM: nim, Sessions: []models.ChatSession{}}
		records = append(records, nil)
		idx = len(records) - 1
	}

	var session *models.ChatSession
	for i := range user.Sessions {
		if user.Sessions[i].ID == sessionID {
			session = &user.Sessions[i]
			break
		}
	}
	if session == nil {
		fresh := models.ChatSession{
			ID:       sessionID,
			Title:    utils.SessionTitle(userText, s.titleLength),
			Messages: []models.Message{},
		}
		user.Sessions = append([]models.ChatSession{fresh}, user.Sessions...)
		session = &user.Sessions[0]
	}

	session.Messages = append(session.Messages,
		models.Message{Sender: models.SenderUser, Text: userText},
		models.Message{Sender: models.SenderBot, Text: botText},
	)
	session.LastUpdated = s.now().Format(TimestampLayout)

	encoded, err := encodeRecord(user)
	if err != nil {
		return fmt.Errorf("failed to encode history of %s: %w", nim, err)
	}
	records[idx] = encoded

	if err := storage.SaveJSON(ctx, s.backend, s.key, records); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// ListSessions returns the session summaries of nim in stored order.
// An unknown user or an unreadable backend yields an empty, non-nil slice.
func (s *Store) ListSessions(ctx context.Context, nim string) []models.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.SessionSummary{}
	user, ok, err := s.findUser(ctx, nim)
	if err != nil {
		s.logger.Error("failed to load history", zap.String("key", s.key), zap.Error(err))
		return out
	}
	if !ok {
		return out
	}
	for i := range user.Sessions {
		out = append(out, user.Sessions[i].Summary())
	}
	return out
}

// GetSessionDetail returns the messages of one session or ErrSessionNotFound.
// Backend read failures are returned wrapped.
func (s *Store) GetSessionDetail(ctx context.Context, nim, sessionID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok, err := s.findUser(ctx, nim)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if !ok {
		return nil, ErrSessionNotFound
	}
	for _, sess := range user.Sessions {
		if sess.ID == sessionID {
			if sess.Messages == nil {
				return []models.Message{}, nil
			}
			return sess.Messages, nil
		}
	}
	return nil, ErrSessionNotFound
}

func (s *Store) findUser(ctx context.Context, nim string) (models.UserHistory, bool, error) {
	records, err := s.load(ctx)
	if err != nil {
		return models.UserHistory{}, false, err
	}
	for _, raw := range records {
		if u, ok := s.decodeUser(raw); ok && u.NIM == nim {
			return u, true, nil
		}
	}
	return models.UserHistory{}, false, nil
}

// load reads the document as a list of raw user records. A missing document or
// one that is not a JSON list is treated as empty; any other backend error is
// returned.
func (s *Store) load(ctx context.Context) ([]json.RawMessage, error) {
	data, err := s.backend.Load(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("history document unreadable, starting empty",
			zap.String("key", s.key), zap.Error(err))
		return nil, nil
	}
	return records, nil
}

// decodeUser decodes one record. Records that do not fit UserHistory are
// skipped by lookups and written back untouched.
func (s *Store) decodeUser(raw json.RawMessage) (models.UserHistory, bool) {
	var u models.UserHistory
	if err := json.Unmarshal(raw, &u); err != nil {
		s.logger.Warn("skipping malformed history record",
			zap.String("key", s.key), zap.Error(err))
		return u, false
	}
	return u, true
}

func encodeRecord(u models.UserHistory) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(u); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimSpace(buf.Bytes())), nil
}
