// Package main is the SmartUTB CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/smartutb/internal/academic"
	"github.com/hyperjump/smartutb/internal/chat"
	"github.com/hyperjump/smartutb/internal/cli"
	"github.com/hyperjump/smartutb/internal/config"
	"github.com/hyperjump/smartutb/internal/history"
	"github.com/hyperjump/smartutb/internal/keyword"
	"github.com/hyperjump/smartutb/internal/models"
	"github.com/hyperjump/smartutb/internal/refdata"
	"github.com/hyperjump/smartutb/internal/server"
	"github.com/hyperjump/smartutb/internal/storage"
	"github.com/hyperjump/smartutb/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/smartutb/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in
// the current directory is preferred if it exists; when neither file exists the
// built-in defaults are used with paths relative to the current directory.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path != defaultConfigPath {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get working directory: %w", err)
	}
	for _, candidate := range []string{filepath.Join(cwd, "config.yaml"), defaultConfigPath} {
		if _, statErr := os.Stat(candidate); statErr == nil {
			cfg, loadErr := config.Load(candidate)
			if loadErr != nil {
				return nil, "", loadErr
			}
			return cfg, candidate, nil
		}
	}
	cfg, err := config.Default(cwd)
	if err != nil {
		return nil, "", err
	}
	return cfg, "", nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "sessions":
		runSessions()
	case "history":
		runHistory()
	case "version", "--version", "-v":
		fmt.Printf("smartutb version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.String("data_dir", cfg.Data.Dir),
		zap.String("history_backend", cfg.History.Backend),
	)

	components, err := initializeComponents(context.Background(), cfg, logger, true)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(
		components.RefData,
		components.Resolver,
		components.History,
		&cfg.Server,
		logger,
		history.NewSessionID,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// argsReorder moves any flags (and their values) that appear after the
// positional arguments to the front so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// buildMessage joins all positional args with spaces so multi-word messages
// work the same with or without shell quoting.
func buildMessage(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	role := fs.String("role", models.RoleGuest, "requester role (mahasiswa unlocks academic answers)")
	nim := fs.String("nim", "", "student NIM (required with --save)")
	session := fs.String("session", "", "session id (a new one is generated with --save when empty)")
	save := fs.Bool("save", false, "append the exchange to chat history")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: smartutb ask [flags] <message>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(os.Args[2:]))

	message := buildMessage(fs.Args())
	if message == "" {
		fs.Usage()
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, logger := mustLoadForCommand(*configPath)
	defer logger.Sync()

	components, err := initializeComponents(context.Background(), cfg, logger, *save)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	req := chat.Request{Message: message, Role: *role, NIM: *nim, SessionID: *session}
	if *save && req.SessionID == "" {
		req.SessionID = history.NewSessionID()
		fmt.Fprintf(os.Stderr, "session: %s\n", req.SessionID)
	}
	resp := components.Resolver.Resolve(context.Background(), req)
	if err := cli.WriteChatResponse(os.Stdout, resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runSessions() {
	fs := flag.NewFlagSet("sessions", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: smartutb sessions [flags] <nim>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	nim := fs.Arg(0)

	cfg, logger := mustLoadForCommand(*configPath)
	defer logger.Sync()

	store, hist, err := openHistory(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open history", zap.Error(err))
	}
	defer store.Close()

	sessions := hist.ListSessions(context.Background(), nim)
	if err := cli.WriteSessions(os.Stdout, nim, sessions, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: smartutb history [flags] <nim> <session_id>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, logger := mustLoadForCommand(*configPath)
	defer logger.Sync()

	store, hist, err := openHistory(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open history", zap.Error(err))
	}
	defer store.Close()

	messages, err := hist.GetSessionDetail(context.Background(), fs.Arg(0), fs.Arg(1))
	if err != nil {
		if errors.Is(err, history.ErrSessionNotFound) {
			fmt.Fprintf(os.Stderr, "Session not found: %s/%s\n", fs.Arg(0), fs.Arg(1))
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read history: %v\n", err)
		}
		os.Exit(1)
	}
	if err := cli.WriteMessages(os.Stdout, messages, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// mustLoadForCommand loads config and a logger for one-shot commands, exiting on failure.
func mustLoadForCommand(configPath string) (*config.Config, *zap.Logger) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return cfg, logger
}

// Components holds initialized services.
type Components struct {
	DataStore    storage.Store
	HistoryStore storage.Store
	RefData      *refdata.Data
	History      *history.Store
	Resolver     *chat.Resolver
}

func (c *Components) Close() {
	if c.DataStore != nil {
		_ = c.DataStore.Close()
	}
	if c.HistoryStore != nil {
		_ = c.HistoryStore.Close()
	}
}

// historyOptions maps the history config section onto a storage backend.
func historyOptions(cfg *config.Config) storage.Options {
	return storage.Options{
		Backend:    cfg.History.Backend,
		Dir:        cfg.Data.Dir,
		SQLitePath: cfg.History.SQLitePath,
		Redis: storage.RedisOptions{
			Addr:     cfg.History.RedisAddr,
			Password: cfg.History.RedisPassword,
			DB:       cfg.History.RedisDB,
			Prefix:   cfg.History.RedisPrefix,
		},
	}
}

func openHistory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, *history.Store, error) {
	store, err := storage.Open(ctx, historyOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history backend: %w", err)
	}
	hist := history.NewStore(store,
		history.WithKey(cfg.History.File),
		history.WithTitleLength(cfg.Matching.TitleLength),
		history.WithLogger(logger),
	)
	return store, hist, nil
}

// initializeComponents loads the reference data and wires the resolver. With
// withHistory false the resolver does not persist exchanges and no history
// backend is opened.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger, withHistory bool) (*Components, error) {
	dataStore, err := storage.NewDiskStore(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	ref := refdata.Load(ctx, dataStore, refdata.Keys{
		Users:    cfg.Data.UsersFile,
		Public:   cfg.Data.PublicFile,
		Academic: cfg.Data.AcademicFile,
	}, logger)

	c := &Components{DataStore: dataStore, RefData: ref}

	var appender chat.HistoryAppender
	if withHistory {
		store, hist, err := openHistory(ctx, cfg, logger)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.HistoryStore = store
		c.History = hist
		appender = hist
	}

	c.Resolver = chat.NewResolver(
		academic.NewMatcher(ref.Academic, logger),
		keyword.NewQAMatcher(ref.QA,
			keyword.WithCutoff(cfg.Matching.FuzzyCutoff),
			keyword.WithCacheSize(cfg.Matching.CacheSize),
			keyword.WithLogger(logger)),
		appender,
		logger,
	)
	return c, nil
}

func printUsage() {
	fmt.Println(`smartutb - Campus information assistant

Usage:
  smartutb server [flags]                       Start the HTTP server
  smartutb ask [flags] <message>                Answer one message locally
  smartutb sessions [flags] <nim>               List a student's chat sessions
  smartutb history [flags] <nim> <session_id>   Print one session's messages
  smartutb version                              Show version
  smartutb help                                 Show this help

Server Flags:
  --config string    Config file path (default: ./config.yaml, then /usr/local/etc/smartutb/config.yaml)
  --debug            Enable debug logging

Ask Flags:
  --config string    Config file path
  --role string      Requester role: mahasiswa or guest (default: guest)
  --nim string       Student NIM
  --session string   Session id (generated when --save is set and this is empty)
  --save             Append the exchange to chat history (mahasiswa only)
  --output string    Output format: text or json (default: text)

Sessions / History Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)

Environment:
  SMARTUTB_* variables override config values, e.g. SMARTUTB_SERVER_PORT=8080,
  SMARTUTB_HISTORY_BACKEND=sqlite. A .env file next to the config file is loaded first.

Examples:
  smartutb server
  smartutb ask "jam buka perpustakaan"
  smartutb ask --role mahasiswa --nim 12345 --save "berapa ipk saya"
  smartutb sessions 12345
  smartutb history --output json 12345 3f1c...`)
}
