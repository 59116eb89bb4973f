// Package integration runs the resolver and history store against every
// storage backend (Redis only when SMARTUTB_TEST_REDIS_ADDR is set).
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/hyperjump/smartutb/internal/academic"
	"github.com/hyperjump/smartutb/internal/chat"
	"github.com/hyperjump/smartutb/internal/history"
	"github.com/hyperjump/smartutb/internal/keyword"
	"github.com/hyperjump/smartutb/internal/models"
	"github.com/hyperjump/smartutb/internal/storage"
)

func backends(t *testing.T) map[string]storage.Options {
	dir := t.TempDir()
	opts := map[string]storage.Options{
		"file":   {Backend: "file", Dir: filepath.Join(dir, "docs")},
		"sqlite": {Backend: "sqlite", SQLitePath: filepath.Join(dir, "db", "history.db")},
	}
	if addr := os.Getenv("SMARTUTB_TEST_REDIS_ADDR"); addr != "" {
		opts["redis"] = storage.Options{
			Backend: "redis",
			Redis:   storage.RedisOptions{Addr: addr, Prefix: "smartutb-it:" + uuid.NewString() + ":"},
		}
	}
	return opts
}

func TestIntegration_ResolverPersistsHistory(t *testing.T) {
	ctx := context.Background()
	facts := &models.AcademicFacts{Student: models.StudentRecord{GPA: "3.10"}}
	bank := []models.QAEntry{{Question: "jam buka perpustakaan?", Answer: "08:00–20:00"}}

	for name, opts := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store, err := storage.Open(ctx, opts)
			if err != nil {
				t.Fatal(err)
			}
			defer store.Close()

			hist := history.NewStore(store)
			resolver := chat.NewResolver(academic.NewMatcher(facts, nil), keyword.NewQAMatcher(bank), hist, nil)

			inputs := []string{"IPK saya berapa", "jam buka perpus", "cuaca"}
			for _, msg := range inputs {
				resolver.Resolve(ctx, chat.Request{Message: msg, Role: models.RoleStudent, NIM: "2021001", SessionID: "a"})
			}
			resolver.Resolve(ctx, chat.Request{Message: "ipk", Role: models.RoleStudent, NIM: "2021001", SessionID: "b"})

			sessions := hist.ListSessions(ctx, "2021001")
			if len(sessions) != 2 || sessions[0].ID != "b" || sessions[1].ID != "a" {
				t.Fatalf("sessions = %+v", sessions)
			}
			if sessions[1].Title != "IPK saya berapa..." {
				t.Errorf("title = %q", sessions[1].Title)
			}

			msgs, err := hist.GetSessionDetail(ctx, "2021001", "a")
			if err != nil {
				t.Fatal(err)
			}
			if len(msgs) != 6 {
				t.Fatalf("got %d messages, want 6", len(msgs))
			}
			if msgs[3].Text != "08:00–20:00" {
				t.Errorf("public answer = %q", msgs[3].Text)
			}
			if msgs[5].Text != chat.FallbackResponse {
				t.Errorf("fallback = %q", msgs[5].Text)
			}

			// a fresh store over the same backend sees the same document
			reopened := history.NewStore(store)
			if n := len(reopened.ListSessions(ctx, "2021001")); n != 2 {
				t.Errorf("reopened store sees %d sessions, want 2", n)
			}
		})
	}
}
