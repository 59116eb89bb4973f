// Package chat resolves a user message to a response by trying the academic
// rules (students only), then the public question bank, then a fixed fallback.
package chat

import (
	"context"

	"github.com/hyperjump/smartutb/internal/models"
	"github.com/hyperjump/smartutb/pkg/utils"
	"go.uber.org/zap"
)

// FallbackResponse is returned when no matcher has an answer.
const FallbackResponse = "Maaf, saya belum mengerti. Coba tanya tentang IPK, Jadwal, atau Biaya."

// AcademicMatcher answers from the academic facts record.
type AcademicMatcher interface {
	Answer(input string) (string, bool)
}

// PublicMatcher answers from the public question bank.
type PublicMatcher interface {
	Answer(input string) (string, bool)
}

// HistoryAppender records one exchange of a student session.
type HistoryAppender interface {
	Append(ctx context.Context, nim, sessionID, userText, botText string) error
}

// Request is one inbound chat message.
type Request struct {
	Message   string `json:"message"`
	Role      string `json:"role"`
	NIM       string `json:"nim"`
	SessionID string `json:"session_id"`
}

// Response is the resolved answer. Found is false only for the fallback text.
type Response struct {
	Response string `json:"response"`
	Found    bool   `json:"found"`
}

// Resolver orchestrates the matchers and history persistence.
type Resolver struct {
	academic AcademicMatcher
	public   PublicMatcher
	history  HistoryAppender
	logger   *zap.Logger
}

// NewResolver returns a resolver. history may be nil to disable persistence.
func NewResolver(academic AcademicMatcher, public PublicMatcher, history HistoryAppender, logger *zap.Logger) *Resolver {
	return &Resolver{
		academic: academic,
		public:   public,
		history:  history,
		logger:   utils.OrNop(logger),
	}
}

// Resolve answers req. It never fails: unmatched input yields the fallback
// and a history write error is only logged.
func (r *Resolver) Resolve(ctx context.Context, req Request) Response {
	input := utils.Normalize(req.Message)
	role := req.Role
	if role == "" {
		role = models.RoleGuest
	}
	student := role == models.RoleStudent

	resp := Response{Response: FallbackResponse}
	source := "fallback"
	if student && r.academic != nil {
		if text, ok := r.academic.Answer(input); ok {
			resp = Response{Response: text, Found: true}
			source = "academic"
		}
	}
	if !resp.Found && r.public != nil {
		if text, ok := r.public.Answer(input); ok {
			resp = Response{Response: text, Found: true}
			source = "public"
		}
	}

	r.logger.Debug("chat resolved",
		zap.String("role", role),
		zap.String("source", source),
		zap.Bool("found", resp.Found))

	if student && req.NIM != "" && req.SessionID != "" && r.history != nil {
		if err := r.history.Append(ctx, req.NIM, req.SessionID, req.Message, resp.Response); err != nil {
			r.logger.Error("failed to save chat history",
				zap.String("nim", req.NIM),
				zap.String("session_id", req.SessionID),
				zap.Error(err))
		}
	}
	return resp
}
