package config

import (
	"server/internal/logger"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort     string
	DatabaseDbPath string
	CacheAddress   string
	ReportDir      string

	ModelAPIKey  string
	ModelBaseURL string
	ModelName    string

	// AnalysisTimeout bounds one external-model call; a hang becomes a
	// failed job instead of a permanently processing one.
	AnalysisTimeout time.Duration

	AnalysisWorkers    int
	AnalysisQueueDepth int

	// Progress heuristic for in-flight jobs: a linear ramp over
	// ProgressRampMinutes capped at ProgressCapPercent. Product-tuning
	// values, deliberately configurable.
	ProgressRampMinutes int
	ProgressCapPercent  int

	SeedDevData bool
}

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_DB_PATH", "data/database.db")
	viper.SetDefault("CACHE_ADDRESS", "localhost:6379")
	viper.SetDefault("REPORT_DIR", "data/reports")
	viper.SetDefault("MODEL_BASE_URL", "https://api.openai.com")
	viper.SetDefault("MODEL_NAME", "gpt-4o-mini")
	viper.SetDefault("ANALYSIS_TIMEOUT_SECONDS", 600)
	viper.SetDefault("ANALYSIS_WORKERS", 4)
	viper.SetDefault("ANALYSIS_QUEUE_DEPTH", 64)
	viper.SetDefault("PROGRESS_RAMP_MINUTES", 9)
	viper.SetDefault("PROGRESS_CAP_PERCENT", 90)
	viper.SetDefault("SEED_DEV_DATA", false)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, log.Err("failed to read config file", err)
		}
		log.Info("no config file found, using environment and defaults")
	}

	config := Config{
		ServerPort:          viper.GetString("SERVER_PORT"),
		DatabaseDbPath:      viper.GetString("DATABASE_DB_PATH"),
		CacheAddress:        viper.GetString("CACHE_ADDRESS"),
		ReportDir:           viper.GetString("REPORT_DIR"),
		ModelAPIKey:         viper.GetString("MODEL_API_KEY"),
		ModelBaseURL:        viper.GetString("MODEL_BASE_URL"),
		ModelName:           viper.GetString("MODEL_NAME"),
		AnalysisTimeout:     time.Duration(viper.GetInt("ANALYSIS_TIMEOUT_SECONDS")) * time.Second,
		AnalysisWorkers:     viper.GetInt("ANALYSIS_WORKERS"),
		AnalysisQueueDepth:  viper.GetInt("ANALYSIS_QUEUE_DEPTH"),
		ProgressRampMinutes: viper.GetInt("PROGRESS_RAMP_MINUTES"),
		ProgressCapPercent:  viper.GetInt("PROGRESS_CAP_PERCENT"),
		SeedDevData:         viper.GetBool("SEED_DEV_DATA"),
	}

	log.Info("config initialized",
		"serverPort", config.ServerPort,
		"dbPath", config.DatabaseDbPath,
		"analysisWorkers", config.AnalysisWorkers)

	return config, nil
}
