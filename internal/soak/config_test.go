package soak

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, 64, cfg.Queue.Capacity)
	assert.Equal(t, 8, cfg.Event.Waiters)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	path := filepath.Join(t.TempDir(), "soak.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
queue:
  capacity: 4
  producers: 2
event:
  waiters: 16
logging:
  sampling:
    enabled: true
    rate: 0.25
    max_per_second: 50
output:
  format: yaml
`), 0o600))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Queue.Capacity)
	assert.Equal(t, 2, cfg.Queue.Producers)
	assert.Equal(t, 32, cfg.Queue.SlotSize, "unset keys keep defaults")
	assert.Equal(t, 16, cfg.Event.Waiters)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.True(t, cfg.Logging.Sampling.Enabled)
	assert.Equal(t, 0.25, cfg.Logging.Sampling.Rate)
	assert.Equal(t, 50, cfg.Logging.Sampling.MaxPerSecond)
}

func TestLoad_Env(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.SetEnvPrefix("MONITORSOAK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	t.Setenv("MONITORSOAK_QUEUE_CONSUMERS", "9")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Queue.Consumers)
}

func TestLoad_Invalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("queue.slot_size", 4)
	viper.Set("event.waiters", 17)

	cfg, err := Load()
	assert.Nil(t, cfg)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)
	assert.Equal(t, "queue.slot_size", verrs[0].Field)
	assert.Equal(t, "event.waiters", verrs[1].Field)
	assert.Contains(t, err.Error(), "2 validation errors")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero capacity", func(c *Config) { c.Queue.Capacity = 0 }, "queue.capacity"},
		{"short slot", func(c *Config) { c.Queue.SlotSize = 7 }, "queue.slot_size"},
		{"no producers", func(c *Config) { c.Queue.Producers = 0 }, "queue.producers"},
		{"no consumers", func(c *Config) { c.Queue.Consumers = -1 }, "queue.consumers"},
		{"no messages", func(c *Config) { c.Queue.MessagesPerProducer = 0 }, "queue.messages_per_producer"},
		{"bad send timeout", func(c *Config) { c.Queue.SendTimeoutMs = -2 }, "queue.send_timeout_ms"},
		{"bad receive timeout", func(c *Config) { c.Queue.ReceiveTimeoutMs = 0 }, "queue.receive_timeout_ms"},
		{"no waiters", func(c *Config) { c.Event.Waiters = 0 }, "event.waiters"},
		{"no rounds", func(c *Config) { c.Event.Rounds = 0 }, "event.rounds"},
		{"bad wait timeout", func(c *Config) { c.Event.WaitTimeoutMs = -5 }, "event.wait_timeout_ms"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad output", func(c *Config) { c.Output.Format = "json" }, "output.format"},
		{"zero sampling rate", func(c *Config) { c.Logging.Sampling = SamplingConfig{Enabled: true} }, "logging.sampling.rate"},
		{"sampling rate above one", func(c *Config) { c.Logging.Sampling = SamplingConfig{Enabled: true, Rate: 1.5} }, "logging.sampling.rate"},
		{"negative sampling cap", func(c *Config) { c.Logging.Sampling = SamplingConfig{Enabled: true, Rate: 1, MaxPerSecond: -1} }, "logging.sampling.max_per_second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}

	t.Run("infinite and immediate timeouts", func(t *testing.T) {
		cfg := Default()
		cfg.Queue.SendTimeoutMs = -1
		cfg.Event.WaitTimeoutMs = 0
		assert.Empty(t, cfg.Validate())
	})

	t.Run("sampling settings ignored while disabled", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Sampling = SamplingConfig{Enabled: false, Rate: 7, MaxPerSecond: -3}
		assert.Empty(t, cfg.Validate())
	})
}

func TestLoggingConfig_NewLogger(t *testing.T) {
	var sb strings.Builder
	log, err := LoggingConfig{Level: "debug", Format: "json"}.NewLogger(&sb)
	require.NoError(t, err)
	log.Debug("hello")
	assert.Contains(t, sb.String(), `"msg":"hello"`)

	_, err = LoggingConfig{Level: "nope"}.NewLogger(&sb)
	assert.Error(t, err)
}

func TestLoggingConfig_NewLoggerSampling(t *testing.T) {
	var sb strings.Builder
	log, err := LoggingConfig{
		Level:    "info",
		Format:   "text",
		Sampling: SamplingConfig{Enabled: true, Rate: 0.5},
	}.NewLogger(&sb)
	require.NoError(t, err)

	for range 100 {
		log.Info("tick")
	}
	log.Warn("always")

	assert.Equal(t, 50, strings.Count(sb.String(), "msg=tick"))
	assert.Contains(t, sb.String(), "msg=always")

	t.Run("disabled keeps everything", func(t *testing.T) {
		var sb strings.Builder
		log, err := LoggingConfig{
			Level:    "info",
			Sampling: SamplingConfig{Enabled: false, Rate: 0.1},
		}.NewLogger(&sb)
		require.NoError(t, err)
		for range 10 {
			log.Info("tick")
		}
		assert.Equal(t, 10, strings.Count(sb.String(), "msg=tick"))
	})
}
