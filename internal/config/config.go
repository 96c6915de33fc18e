package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"kelimeoyunu/internal/models"
)

// Config holds application configuration
type Config struct {
	// Game client
	DataDir        string
	DictionaryPath string
	RoundDuration  int
	Levels         []int

	// Remote leaderboard document store
	RemoteBaseURL   string
	RemoteMasterKey string
	ScoreBinID      string
	UserBinID       string
	RemoteConfigURL string
	ConfigVersion   string

	// Leaderboard server
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string
}

// validDurations is the enumerated set of round durations the scoring
// multiplier is defined for.
var validDurations = map[int]bool{30: true, 45: true, 60: true}

// Load reads configuration from environment variables with sensible
// defaults, then applies the local config.json overlay if one exists.
func Load() *Config {
	cfg := &Config{
		DataDir:        getEnv("DATA_DIR", defaultDataDir()),
		DictionaryPath: getEnv("DICTIONARY_PATH", "./sozluk.json"),
		RoundDuration:  getEnvInt("ROUND_DURATION", 60),
		Levels:         parseLevels(getEnv("LEVELS", "4,5,6,7,8,9,10")),

		RemoteBaseURL:   getEnv("REMOTE_BASE_URL", "https://api.jsonbin.io/v3/b"),
		RemoteMasterKey: getEnv("REMOTE_MASTER_KEY", ""),
		ScoreBinID:      getEnv("SCORE_BIN_ID", ""),
		UserBinID:       getEnv("USER_BIN_ID", ""),
		RemoteConfigURL: getEnv("REMOTE_CONFIG_URL", ""),

		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./kelimeoyunu.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
	}

	cfg.applyLocalFile()

	if !validDurations[cfg.RoundDuration] {
		log.Printf("Warning: unsupported round duration %d, using 60", cfg.RoundDuration)
		cfg.RoundDuration = 60
	}

	return cfg
}

// SessionConfig derives the immutable per-session value object handed to
// the engine.
func (c *Config) SessionConfig() models.SessionConfig {
	return models.SessionConfig{
		Levels:             append([]int(nil), c.Levels...),
		RoundDuration:      c.RoundDuration,
		ScorePerLengthUnit: models.DefaultScorePerLengthUnit,
	}
}

// localFile mirrors the structure of the synced config.json document.
type localFile struct {
	Version      string `json:"version"`
	GameSettings struct {
		TimerDuration int   `json:"timer_duration"`
		Levels        []int `json:"levels"`
	} `json:"game_settings"`
}

func (c *Config) localFilePath() string {
	return filepath.Join(c.DataDir, "config.json")
}

// applyLocalFile overlays config.json values onto the env-derived config.
// A missing or corrupt file is not an error; the defaults stand.
func (c *Config) applyLocalFile() {
	data, err := os.ReadFile(c.localFilePath())
	if err != nil {
		return
	}

	var f localFile
	if err := json.Unmarshal(data, &f); err != nil {
		log.Printf("Warning: ignoring corrupt config.json: %v", err)
		return
	}

	c.ConfigVersion = f.Version
	if f.GameSettings.TimerDuration != 0 {
		c.RoundDuration = f.GameSettings.TimerDuration
	}
	if len(f.GameSettings.Levels) > 0 {
		c.Levels = f.GameSettings.Levels
	}
}

// ApplyRemote replaces the local config.json with the fetched document
// when the version strings differ. The comparison is plain inequality,
// not semantic versioning. Returns true if the file was replaced.
func (c *Config) ApplyRemote(version string, raw []byte) (bool, error) {
	if version == "" || version == c.ConfigVersion {
		return false, nil
	}

	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(c.localFilePath(), raw, 0o644); err != nil {
		return false, err
	}

	c.ConfigVersion = version
	c.applyLocalFile()
	return true, nil
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "KelimeOyunu")
}

// parseLevels parses a comma-separated list of word lengths.
func parseLevels(s string) []int {
	var levels []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			continue
		}
		levels = append(levels, n)
	}
	return levels
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
