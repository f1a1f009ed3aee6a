package soak

import (
	"github.com/spf13/viper"
)

// Config represents the complete soak run configuration
type Config struct {
	Queue   QueueConfig   `mapstructure:"queue" yaml:"queue"`
	Event   EventConfig   `mapstructure:"event" yaml:"event"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
}

// QueueConfig controls the message queue soak
type QueueConfig struct {
	// Capacity is the number of message slots (default: 64)
	Capacity int `mapstructure:"capacity" yaml:"capacity"`
	// SlotSize is the fixed message size in bytes, at least 8 (default: 32)
	SlotSize int `mapstructure:"slot_size" yaml:"slot_size"`
	// Producers is the number of sending goroutines (default: 4)
	Producers int `mapstructure:"producers" yaml:"producers"`
	// Consumers is the number of receiving goroutines (default: 4)
	Consumers int `mapstructure:"consumers" yaml:"consumers"`
	// MessagesPerProducer is how many messages each producer sends (default: 10000)
	MessagesPerProducer int `mapstructure:"messages_per_producer" yaml:"messages_per_producer"`
	// SendTimeoutMs bounds each send; -1 waits forever, 0 never blocks (default: 100)
	SendTimeoutMs int `mapstructure:"send_timeout_ms" yaml:"send_timeout_ms"`
	// ReceiveTimeoutMs bounds each receive (default: 100)
	ReceiveTimeoutMs int `mapstructure:"receive_timeout_ms" yaml:"receive_timeout_ms"`
}

// EventConfig controls the event group soak
type EventConfig struct {
	// Waiters is the number of waiting goroutines, 1 to 16 (default: 8)
	Waiters int `mapstructure:"waiters" yaml:"waiters"`
	// Rounds is the number of set/acknowledge rounds (default: 1000)
	Rounds int `mapstructure:"rounds" yaml:"rounds"`
	// WaitTimeoutMs bounds the driver's wait for acknowledgements (default: 1000)
	WaitTimeoutMs int `mapstructure:"wait_timeout_ms" yaml:"wait_timeout_ms"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Format is "text" or "json" (default: "text")
	Format string `mapstructure:"format" yaml:"format"`
	// Sampling thins debug and info output during long runs
	Sampling SamplingConfig `mapstructure:"sampling" yaml:"sampling"`
}

// SamplingConfig controls log sampling. Warnings and errors are never dropped.
type SamplingConfig struct {
	// Enabled turns sampling on (default: false)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Rate is the fraction of debug/info entries kept, in (0, 1] (default: 1.0)
	Rate float64 `mapstructure:"rate" yaml:"rate"`
	// MaxPerSecond caps debug/info entries per second, 0 = no cap (default: 0)
	MaxPerSecond int `mapstructure:"max_per_second" yaml:"max_per_second"`
}

// OutputConfig controls how reports are printed
type OutputConfig struct {
	// Format is "text" or "yaml" (default: "text")
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Queue: QueueConfig{
			Capacity:            64,
			SlotSize:            32,
			Producers:           4,
			Consumers:           4,
			MessagesPerProducer: 10000,
			SendTimeoutMs:       100,
			ReceiveTimeoutMs:    100,
		},
		Event: EventConfig{
			Waiters:       8,
			Rounds:        1000,
			WaitTimeoutMs: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Sampling: SamplingConfig{
				Enabled:      false,
				Rate:         1.0,
				MaxPerSecond: 0,
			},
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Queue defaults
	viper.SetDefault("queue.capacity", defaults.Queue.Capacity)
	viper.SetDefault("queue.slot_size", defaults.Queue.SlotSize)
	viper.SetDefault("queue.producers", defaults.Queue.Producers)
	viper.SetDefault("queue.consumers", defaults.Queue.Consumers)
	viper.SetDefault("queue.messages_per_producer", defaults.Queue.MessagesPerProducer)
	viper.SetDefault("queue.send_timeout_ms", defaults.Queue.SendTimeoutMs)
	viper.SetDefault("queue.receive_timeout_ms", defaults.Queue.ReceiveTimeoutMs)

	// Event defaults
	viper.SetDefault("event.waiters", defaults.Event.Waiters)
	viper.SetDefault("event.rounds", defaults.Event.Rounds)
	viper.SetDefault("event.wait_timeout_ms", defaults.Event.WaitTimeoutMs)

	// Logging defaults
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.format", defaults.Logging.Format)
	viper.SetDefault("logging.sampling.enabled", defaults.Logging.Sampling.Enabled)
	viper.SetDefault("logging.sampling.rate", defaults.Logging.Sampling.Rate)
	viper.SetDefault("logging.sampling.max_per_second", defaults.Logging.Sampling.MaxPerSecond)

	// Output defaults
	viper.SetDefault("output.format", defaults.Output.Format)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}
