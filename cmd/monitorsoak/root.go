package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/a2y-d5l/go-monitor/internal/soak"
	"github.com/a2y-d5l/go-monitor/observability"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var rootCmd = &cobra.Command{
	Use:   "monitorsoak",
	Short: "Soak-test the message queue and event group",
	Long: `monitorsoak runs sustained concurrent workloads against the bounded
message queue and the event-flag group, verifying FIFO delivery, payload
integrity and reset cancellation.

Settings come from flags, a YAML config file and MONITORSOAK_* environment
variables (e.g. MONITORSOAK_QUEUE_CAPACITY for queue.capacity).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is ./monitorsoak.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringP("output", "o", "", "report format: text or yaml")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output"))
}

func initConfig() {
	soak.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("monitorsoak")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/monitorsoak")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("MONITORSOAK")
	// e.g., MONITORSOAK_QUEUE_SLOT_SIZE for queue.slot_size
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// setup loads the config and builds the runner shared by the run commands
func setup(cmd *cobra.Command) (*soak.Config, *soak.Runner, *observability.InMemoryMetricsCollector, error) {
	cfg, err := soak.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := cfg.Logging.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, nil, err
	}

	collector := observability.NewInMemoryMetricsCollector()
	if err := collector.Start(cmd.Context()); err != nil {
		return nil, nil, nil, err
	}
	return cfg, soak.NewRunner(cfg, log, collector), collector, nil
}

// signalContext ends on SIGINT or SIGTERM so an interrupted run still
// resets its primitives and reports.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

type yamlReport struct {
	Report  any                    `yaml:"report"`
	Metrics []observability.Metric `yaml:"metrics,omitempty"`
}

func printReport(w io.Writer, format string, report any, lines []string, metrics []observability.Metric) error {
	if strings.EqualFold(format, "yaml") {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(yamlReport{Report: report, Metrics: metrics}); err != nil {
			return err
		}
		return enc.Close()
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
