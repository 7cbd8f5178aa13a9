package source

import (
	"context"
)

// Source produces batches of raw records and accepts acknowledgments.
// ListUnprocessed returns a delimited blob with header title,date,url
// (optionally description); an error means the source itself is
// unreachable and the caller should back off and retry the batch later.
type Source interface {
	Name() string
	ListUnprocessed(ctx context.Context) (string, error)
	MarkProcessed(ctx context.Context, url string) error
}

type Kind string

const (
	KindQueue Kind = "queue"
	KindFile  Kind = "file"
	KindFeed  Kind = "feed"
)

// Config describes one record source, loaded from sources/<name>.yml.
type Config struct {
	Name     string         // derived from filename (without .yml extension)
	Kind     Kind           `yaml:"kind"`
	URL      string         `yaml:"url"`  // queue list endpoint or feed URL
	Path     string         `yaml:"path"` // file sources only
	Settings ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled      bool `yaml:"enabled"`
	BatchSize    int  `yaml:"batch_size"`
	PollInterval int  `yaml:"poll_interval"` // seconds
	Timeout      int  `yaml:"timeout"`       // seconds
}
