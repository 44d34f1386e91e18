package grapetree

// Config holds router settings loadable with core/config from the environment
// or a TOML file.
type Config struct {
	// MaxRedirects bounds chained redirects within one transition.
	MaxRedirects int `env:"GRAPETREE_MAX_REDIRECTS" envDefault:"16" toml:"max_redirects"`

	// BroadcastBuffer is the per-subscriber buffer of Subscribe channels.
	BroadcastBuffer int `env:"GRAPETREE_BROADCAST_BUFFER" envDefault:"16" toml:"broadcast_buffer"`

	// Separator installs a DelimitedTransform when non-empty.
	Separator string `env:"GRAPETREE_SEPARATOR" toml:"separator"`

	// TracerName names the OpenTelemetry tracer taken from the global provider.
	TracerName string `env:"GRAPETREE_TRACER_NAME" envDefault:"github.com/dmitrymomot/grapetree" toml:"tracer_name"`
}

// DefaultConfig returns the settings New uses without options.
func DefaultConfig() Config {
	return Config{
		MaxRedirects:    16,
		BroadcastBuffer: 16,
		TracerName:      "github.com/dmitrymomot/grapetree",
	}
}
