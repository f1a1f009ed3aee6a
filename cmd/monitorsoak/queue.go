package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Run producers and consumers through one message queue",
	Long: `Run producers and consumers through one bounded message queue.

Each producer sends sequence-numbered messages; consumers verify that every
producer's messages arrive in order and intact. The run ends when all
messages are delivered, then the queue is reset.`,
	RunE: runQueue,
}

func init() {
	rootCmd.AddCommand(queueCmd)

	flags := queueCmd.Flags()
	flags.Int("capacity", 0, "queue capacity in messages")
	flags.Int("slot-size", 0, "message size in bytes (at least 8)")
	flags.Int("producers", 0, "number of producers")
	flags.Int("consumers", 0, "number of consumers")
	flags.Int("messages", 0, "messages per producer")
	flags.Int("send-timeout-ms", 0, "send timeout; -1 waits forever, 0 never blocks")

	_ = viper.BindPFlag("queue.capacity", flags.Lookup("capacity"))
	_ = viper.BindPFlag("queue.slot_size", flags.Lookup("slot-size"))
	_ = viper.BindPFlag("queue.producers", flags.Lookup("producers"))
	_ = viper.BindPFlag("queue.consumers", flags.Lookup("consumers"))
	_ = viper.BindPFlag("queue.messages_per_producer", flags.Lookup("messages"))
	_ = viper.BindPFlag("queue.send_timeout_ms", flags.Lookup("send-timeout-ms"))
}

func runQueue(cmd *cobra.Command, args []string) error {
	cfg, runner, collector, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = collector.Stop(cmd.Context()) }()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	report, runErr := runner.RunQueue(ctx)
	if report == nil {
		return runErr
	}

	lines := []string{
		fmt.Sprintf("messages:          %d", report.Messages),
		fmt.Sprintf("sent:              %d", report.Sent),
		fmt.Sprintf("received:          %d", report.Received),
		fmt.Sprintf("send timeouts:     %d", report.SendTimeouts),
		fmt.Sprintf("receive timeouts:  %d", report.ReceiveTimeouts),
		fmt.Sprintf("cancellations:     %d", report.Cancellations),
		fmt.Sprintf("order violations:  %d", report.OrderViolations),
		fmt.Sprintf("corrupt messages:  %d", report.CorruptMessages),
		fmt.Sprintf("elapsed:           %s", report.Elapsed),
		fmt.Sprintf("throughput:        %.0f msg/s", report.Throughput),
	}
	if err := printReport(cmd.OutOrStdout(), cfg.Output.Format, report, lines, collector.GetMetrics()); err != nil {
		return err
	}

	return errors.Join(runErr, report.Verify())
}
