package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Simulation
	Runs          int
	Seed          uint64
	Seeded        bool // false when SIM_SEED is unset; runs are then not reproducible
	Workers       int
	FatiguePolicy string

	// Head to head
	H2HRuns          int
	H2HTopScorelines int

	// Inputs
	SchedulePath   string
	LeagueDataPath string // empty uses the tables compiled into the binary

	// Outputs
	ResultsDBPath     string
	RedisAddr         string
	ReportTTL         time.Duration
	FanoutPort        int
	DiscordWebhookURL string

	// Telemetry
	LogLevel       string
	ProgressPerSec float64
}

func Load() *Config {
	_ = godotenv.Load()

	seed, seeded := envUint("SIM_SEED")
	return &Config{
		Runs:          envInt("SIM_RUNS", 500),
		Seed:          seed,
		Seeded:        seeded,
		Workers:       envInt("SIM_WORKERS", runtime.GOMAXPROCS(0)),
		FatiguePolicy: envStr("SIM_FATIGUE_POLICY", "cumulative"),

		H2HRuns:          envInt("H2H_RUNS", 500),
		H2HTopScorelines: envInt("H2H_TOP_SCORELINES", 5),

		SchedulePath:   envStr("SCHEDULE_PATH", "master_schedule.csv"),
		LeagueDataPath: envStr("LEAGUE_DATA_PATH", ""),

		ResultsDBPath:     envStr("RESULTS_DB_PATH", "data/hockeysim.db"),
		RedisAddr:         envStr("REDIS_ADDR", ""),
		ReportTTL:         time.Duration(envInt("REPORT_TTL_SEC", 86400)) * time.Second,
		FanoutPort:        envInt("FANOUT_PORT", 0),
		DiscordWebhookURL: envStr("DISCORD_WEBHOOK_URL", ""),

		LogLevel:       envStr("LOG_LEVEL", "info"),
		ProgressPerSec: envFloat("PROGRESS_PER_SEC", 1),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envUint(key string) (uint64, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
