package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Completion service configuration
	CompletionURL   string `long:"completion-url" env:"COMPLETION_URL" default:"https://api.deepseek.com/v1/chat/completions" description:"Chat completion endpoint"`
	CompletionKey   string `long:"completion-key" env:"COMPLETION_API_KEY" description:"Chat completion API key"`
	CompletionModel string `long:"completion-model" env:"COMPLETION_MODEL" default:"deepseek-chat" description:"Chat completion model name"`

	// Geocoding service configuration
	GeocoderURL string `long:"geocoder-url" env:"GEOCODER_URL" default:"https://maps.googleapis.com/maps/api/place/findplacefromtext/json" description:"Geocoding endpoint"`
	GeocoderKey string `long:"geocoder-key" env:"GEOCODER_API_KEY" description:"Geocoding API key"`

	// Upstream article queue configuration
	QueueListURL string `long:"queue-list-url" env:"ARTICLES_GET_API" description:"Endpoint returning unprocessed article records"`
	QueueMarkURL string `long:"queue-mark-url" env:"ARTICLES_MARK_API" description:"Endpoint marking an article record processed"`
	QueueAPIKey  string `long:"queue-api-key" env:"ARTICLES_API_KEY" description:"API key for the article queue endpoints"`

	// Application configuration
	DBPath            string `long:"db-path" env:"DB_PATH" default:"./icemap.db" description:"SQLite database path"`
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for batch processing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler tick interval in seconds"`
	IdleInterval      int    `long:"idle-interval" env:"IDLE_INTERVAL" default:"300" description:"Wait in seconds before re-polling an idle or failing source"`
	BatchSize         int    `long:"batch-size" env:"BATCH_SIZE" default:"25" description:"Maximum records processed per batch"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"icemap-agent/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		CompletionURL:     raw.CompletionURL,
		CompletionKey:     raw.CompletionKey,
		CompletionModel:   raw.CompletionModel,
		GeocoderURL:       raw.GeocoderURL,
		GeocoderKey:       raw.GeocoderKey,
		QueueListURL:      raw.QueueListURL,
		QueueMarkURL:      raw.QueueMarkURL,
		QueueAPIKey:       raw.QueueAPIKey,
		DBPath:            raw.DBPath,
		SourcesDir:        raw.SourcesDir,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		IdleInterval:      raw.IdleInterval,
		BatchSize:         raw.BatchSize,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
