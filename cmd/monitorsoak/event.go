package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Run request/acknowledge rounds over one event group",
	Long: `Run request/acknowledge rounds over one event group.

Waiter i blocks on bit i (ANY, CLEAR) and acknowledges by setting bit 16+i.
The driver sets every request bit and waits for all acknowledgements
(ALL, CLEAR). After the last round the group is reset and every waiter
must observe the cancellation.`,
	RunE: runEvent,
}

func init() {
	rootCmd.AddCommand(eventCmd)

	flags := eventCmd.Flags()
	flags.Int("waiters", 0, "number of waiters (1-16)")
	flags.Int("rounds", 0, "number of rounds")
	flags.Int("wait-timeout-ms", 0, "driver acknowledgement timeout; -1 waits forever")

	_ = viper.BindPFlag("event.waiters", flags.Lookup("waiters"))
	_ = viper.BindPFlag("event.rounds", flags.Lookup("rounds"))
	_ = viper.BindPFlag("event.wait_timeout_ms", flags.Lookup("wait-timeout-ms"))
}

func runEvent(cmd *cobra.Command, args []string) error {
	cfg, runner, collector, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = collector.Stop(cmd.Context()) }()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	report, runErr := runner.RunEvent(ctx)
	if report == nil {
		return runErr
	}

	lines := []string{
		fmt.Sprintf("waiters:           %d", report.Waiters),
		fmt.Sprintf("rounds:            %d", report.Rounds),
		fmt.Sprintf("acknowledgements:  %d", report.Acknowledgements),
		fmt.Sprintf("cancellations:     %d", report.Cancellations),
		fmt.Sprintf("timeouts:          %d", report.Timeouts),
		fmt.Sprintf("elapsed:           %s", report.Elapsed),
		fmt.Sprintf("rate:              %.0f rounds/s", report.RoundsPerSecond),
	}
	if err := printReport(cmd.OutOrStdout(), cfg.Output.Format, report, lines, collector.GetMetrics()); err != nil {
		return err
	}

	return errors.Join(runErr, report.Verify())
}
