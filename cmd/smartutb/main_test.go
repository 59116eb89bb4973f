package main

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/smartutb/internal/chat"
	"github.com/hyperjump/smartutb/internal/models"
	"go.uber.org/zap"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after message are moved first",
			args:     []string{"berapa ipk saya", "-role", "mahasiswa"},
			expected: []string{"-role", "mahasiswa", "berapa ipk saya"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-role", "mahasiswa", "berapa ipk saya"},
			expected: []string{"-role", "mahasiswa", "berapa ipk saya"},
		},
		{
			name:     "message only returns unchanged",
			args:     []string{"jam buka perpustakaan"},
			expected: []string{"jam buka perpustakaan"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"12345", "s1", "-output", "json"},
			expected: []string{"-output", "json", "12345", "s1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"ipk"}, "ipk"},
		{"multiple words", []string{"jadwal", "hari", "senin"}, "jadwal hari senin"},
		{"single quoted phrase", []string{"jadwal hari senin"}, "jadwal hari senin"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildMessage(tt.args)
			if got != tt.expected {
				t.Errorf("buildMessage(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLoadConfig_explicitPathMissing(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestInitializeComponents(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"users.json":         `[{"nim": "12345", "password": "rahasia", "role": "mahasiswa"}]`,
		"data_public.json":   `[{"question": "jam buka perpustakaan?", "answer": "08:00–20:00"}]`,
		"data_academic.json": `{"mahasiswa": {"ipk": "3.90"}}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dataDir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	configPath := filepath.Join(dir, "config.yaml")
	content := `
data:
  dir: "./data"
history:
  backend: sqlite
  sqlite_path: "./data/history.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	components, err := initializeComponents(ctx, cfg, zap.NewNop(), true)
	if err != nil {
		t.Fatal(err)
	}
	defer components.Close()

	if _, ok := components.RefData.Authenticate("12345", "rahasia"); !ok {
		t.Error("account from data dir should authenticate")
	}
	resp := components.Resolver.Resolve(ctx, chat.Request{
		Message: "ipk", Role: models.RoleStudent, NIM: "12345", SessionID: "s1",
	})
	if !resp.Found || resp.Response != "IPK Kumulatif kamu saat ini adalah **3.90**. Pertahankan ya!" {
		t.Errorf("resolve = %+v", resp)
	}
	if n := len(components.History.ListSessions(ctx, "12345")); n != 1 {
		t.Errorf("got %d sessions in sqlite history, want 1", n)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "history.db")); err != nil {
		t.Errorf("sqlite history file not created: %v", err)
	}
}

func TestInitializeComponents_withoutHistory(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("data:\n  dir: \"./data\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	components, err := initializeComponents(context.Background(), cfg, zap.NewNop(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer components.Close()

	if components.History != nil || components.HistoryStore != nil {
		t.Error("history should not be opened")
	}
	resp := components.Resolver.Resolve(context.Background(), chat.Request{
		Message: "ipk", Role: models.RoleStudent, NIM: "1", SessionID: "s",
	})
	if !resp.Found || !strings.Contains(resp.Response, "**N/A**") {
		t.Errorf("empty academic facts should answer with N/A, got %+v", resp)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "history_sessions.json")); !os.IsNotExist(err) {
		t.Errorf("history file should not be written, stat err = %v", err)
	}
}
