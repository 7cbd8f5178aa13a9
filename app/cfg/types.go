package cfg

type Cfg struct {
	// Completion service configuration
	CompletionURL   string
	CompletionKey   string
	CompletionModel string

	// Geocoding service configuration
	GeocoderURL string
	GeocoderKey string

	// Upstream article queue configuration
	QueueListURL string
	QueueMarkURL string
	QueueAPIKey  string

	// Application configuration
	DBPath            string
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	IdleInterval      int
	BatchSize         int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
