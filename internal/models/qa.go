package models

// QAEntry is one question/answer pair of the public bank.
type QAEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
