package models

// Message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is one line of a conversation.
type Message struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ChatSession is one conversation thread of a user.
type ChatSession struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LastUpdated string    `json:"last_updated"`
	Messages    []Message `json:"messages"`
}

// UserHistory holds every session of one user, newest-created first.
type UserHistory struct {
	NIM      string        `json:"nim"`
	Sessions []ChatSession `json:"sessions"`
}

// SessionSummary is the listing view of a session; it never carries messages.
type SessionSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Summary returns the listing view of s.
func (s *ChatSession) Summary() SessionSummary {
	return SessionSummary{ID: s.ID, Title: s.Title, Date: s.LastUpdated}
}
