package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperjump/smartutb/internal/academic"
	"github.com/hyperjump/smartutb/internal/chat"
	"github.com/hyperjump/smartutb/internal/config"
	"github.com/hyperjump/smartutb/internal/history"
	"github.com/hyperjump/smartutb/internal/keyword"
	"github.com/hyperjump/smartutb/internal/models"
	"github.com/hyperjump/smartutb/internal/refdata"
	"github.com/hyperjump/smartutb/internal/server"
	"github.com/hyperjump/smartutb/internal/storage"
	"go.uber.org/zap"
)

// startServer serves the sample reference data with history written to a temp dir.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	dataStore, err := storage.NewDiskStore(SampleDataDir)
	if err != nil {
		t.Fatal(err)
	}
	ref := refdata.Load(ctx, dataStore, refdata.Keys{}, logger)
	if len(ref.Accounts) == 0 || len(ref.QA) == 0 {
		t.Fatalf("sample data not loaded from %s", SampleDataDir)
	}

	historyStore, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	hist := history.NewStore(historyStore, history.WithLogger(logger))
	resolver := chat.NewResolver(
		academic.NewMatcher(ref.Academic, logger),
		keyword.NewQAMatcher(ref.QA, keyword.WithLogger(logger)),
		hist,
		logger,
	)
	srv := server.NewServer(ref, resolver, hist, &config.ServerConfig{CORSOrigins: []string{"*"}}, logger, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body interface{}, out interface{}) int {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestE2E_ChatAnswers(t *testing.T) {
	ts := startServer(t)

	for _, tc := range ChatCases {
		t.Run(tc.Description, func(t *testing.T) {
			var out chat.Response
			status := postJSON(t, ts, "/chat", map[string]string{"message": tc.Message, "role": tc.Role}, &out)
			if status != http.StatusOK {
				t.Fatalf("status = %d", status)
			}
			if out.Found != tc.WantFound {
				t.Errorf("found = %v, want %v (response %q)", out.Found, tc.WantFound, out.Response)
			}
			if tc.Want != "" && !strings.Contains(out.Response, tc.Want) {
				t.Errorf("response %q does not contain %q", out.Response, tc.Want)
			}
		})
	}
}

func TestE2E_Conversations(t *testing.T) {
	ts := startServer(t)

	for _, sc := range Scenarios {
		var login struct {
			Status string                 `json:"status"`
			Data   map[string]interface{} `json:"data"`
		}
		if status := postJSON(t, ts, "/login", map[string]string{"nim": sc.NIM, "password": sc.Password}, &login); status != http.StatusOK {
			t.Fatalf("login %s: status %d", sc.NIM, status)
		}
		role, _ := login.Data["role"].(string)
		if role != models.RoleStudent {
			t.Fatalf("login %s: role %q", sc.NIM, role)
		}

		for _, msg := range sc.Messages {
			req := map[string]string{"message": msg, "role": role, "nim": sc.NIM, "session_id": sc.SessionID}
			if status := postJSON(t, ts, "/chat", req, &chat.Response{}); status != http.StatusOK {
				t.Fatalf("chat: status %d", status)
			}
		}
	}

	wantSessions := map[string][]string{}
	wantMessages := map[string]int{}
	for _, sc := range Scenarios {
		// newest-created session first
		wantSessions[sc.NIM] = append([]string{sc.SessionID}, wantSessions[sc.NIM]...)
		wantMessages[sc.SessionID] = 2 * len(sc.Messages)
	}

	for nim, ids := range wantSessions {
		var sessions struct {
			Data []models.SessionSummary `json:"data"`
		}
		postJSON(t, ts, "/get_sessions", map[string]string{"nim": nim}, &sessions)
		if len(sessions.Data) != len(ids) {
			t.Fatalf("nim %s: got %d sessions, want %d", nim, len(sessions.Data), len(ids))
		}
		for i, id := range ids {
			if sessions.Data[i].ID != id {
				t.Errorf("nim %s: session %d = %s, want %s", nim, i, sessions.Data[i].ID, id)
			}
			if !strings.HasSuffix(sessions.Data[i].Title, "...") {
				t.Errorf("title %q should end with ...", sessions.Data[i].Title)
			}
		}

		for _, id := range ids {
			var detail struct {
				Data []models.Message `json:"data"`
			}
			status := postJSON(t, ts, "/get_chat_detail", map[string]string{"nim": nim, "session_id": id}, &detail)
			if status != http.StatusOK {
				t.Fatalf("detail %s: status %d", id, status)
			}
			if len(detail.Data) != wantMessages[id] {
				t.Errorf("session %s: got %d messages, want %d", id, len(detail.Data), wantMessages[id])
			}
			for i, m := range detail.Data {
				want := models.SenderUser
				if i%2 == 1 {
					want = models.SenderBot
				}
				if m.Sender != want {
					t.Errorf("session %s message %d sender = %s, want %s", id, i, m.Sender, want)
				}
			}
		}
	}
}

func TestE2E_GuestLoginKeepsNoHistory(t *testing.T) {
	ts := startServer(t)

	var login struct {
		Data map[string]interface{} `json:"data"`
	}
	if status := postJSON(t, ts, "/login", map[string]string{"nim": "tamu", "password": "tamu"}, &login); status != http.StatusOK {
		t.Fatalf("login status %d", status)
	}
	req := map[string]string{"message": "jam buka perpus", "role": login.Data["role"].(string), "nim": "tamu", "session_id": "x"}
	postJSON(t, ts, "/chat", req, nil)

	var sessions struct {
		Data []models.SessionSummary `json:"data"`
	}
	postJSON(t, ts, "/get_sessions", map[string]string{"nim": "tamu"}, &sessions)
	if len(sessions.Data) != 0 {
		t.Errorf("guest has %d sessions, want 0", len(sessions.Data))
	}
}
