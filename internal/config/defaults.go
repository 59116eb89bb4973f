package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.CORSOrigins == nil {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "./data"
	}
	if cfg.Data.UsersFile == "" {
		cfg.Data.UsersFile = "users.json"
	}
	if cfg.Data.PublicFile == "" {
		cfg.Data.PublicFile = "data_public.json"
	}
	if cfg.Data.AcademicFile == "" {
		cfg.Data.AcademicFile = "data_academic.json"
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = "file"
	}
	if cfg.History.File == "" {
		cfg.History.File = "history_sessions.json"
	}
	if cfg.History.SQLitePath == "" {
		cfg.History.SQLitePath = "./data/history.db"
	}
	if cfg.History.RedisAddr == "" {
		cfg.History.RedisAddr = "localhost:6379"
	}
	if cfg.History.RedisPrefix == "" {
		cfg.History.RedisPrefix = "smartutb:"
	}
	if cfg.Matching.FuzzyCutoff == 0 {
		cfg.Matching.FuzzyCutoff = 0.6
	}
	if cfg.Matching.TitleLength == 0 {
		cfg.Matching.TitleLength = 30
	}
	if cfg.Matching.CacheSize == 0 {
		cfg.Matching.CacheSize = 1024
	}
}
