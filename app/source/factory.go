package source

import (
	"fmt"
	"net/http"
	"time"

	"github.com/icemap/agent/app/cfg"
)

// Build constructs the concrete source for a configuration. Queue
// sources take the shared mark endpoint and API key from the
// application configuration.
func Build(config *Config, httpClient *http.Client) (Source, error) {
	c := cfg.Get()
	timeout := time.Duration(config.Settings.Timeout) * time.Second

	switch config.Kind {
	case KindQueue:
		listURL := config.URL
		if listURL == "" {
			listURL = c.QueueListURL
		}
		return NewQueueSource(config.Name, listURL, c.QueueMarkURL, c.QueueAPIKey, timeout, httpClient), nil
	case KindFile:
		return NewFileSource(config.Name, config.Path), nil
	case KindFeed:
		return NewFeedSource(config.Name, config.URL, c.UserAgent), nil
	default:
		return nil, fmt.Errorf("unknown source kind: %q", config.Kind)
	}
}
