package soak

import (
	"fmt"
	"strings"

	"github.com/a2y-d5l/go-monitor/observability"
)

// MaxWaiters is the largest event soak fan-out: waiter i owns bit i and
// acknowledges on bit 16+i.
const MaxWaiters = 16

// minSlotSize holds the producer id and sequence number
const minSlotSize = 8

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "queue.slot_size")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate checks every section and returns all failures found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateQueue()...)
	errors = append(errors, c.validateEvent()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateOutput()...)

	return errors
}

func positive(field string, v int) []ValidationError {
	if v > 0 {
		return nil
	}
	return []ValidationError{{Field: field, Value: v, Message: "must be positive"}}
}

func timeoutMs(field string, v int) []ValidationError {
	if v >= -1 {
		return nil
	}
	return []ValidationError{{Field: field, Value: v, Message: "must be -1 (forever), 0 (immediate) or a positive number of milliseconds"}}
}

// validateQueue validates the QueueConfig
func (c *Config) validateQueue() []ValidationError {
	var errors []ValidationError

	errors = append(errors, positive("queue.capacity", c.Queue.Capacity)...)
	if c.Queue.SlotSize < minSlotSize {
		errors = append(errors, ValidationError{
			Field:   "queue.slot_size",
			Value:   c.Queue.SlotSize,
			Message: fmt.Sprintf("must be at least %d bytes", minSlotSize),
		})
	}
	errors = append(errors, positive("queue.producers", c.Queue.Producers)...)
	errors = append(errors, positive("queue.consumers", c.Queue.Consumers)...)
	errors = append(errors, positive("queue.messages_per_producer", c.Queue.MessagesPerProducer)...)
	errors = append(errors, timeoutMs("queue.send_timeout_ms", c.Queue.SendTimeoutMs)...)
	errors = append(errors, positive("queue.receive_timeout_ms", c.Queue.ReceiveTimeoutMs)...)

	return errors
}

// validateEvent validates the EventConfig
func (c *Config) validateEvent() []ValidationError {
	var errors []ValidationError

	if c.Event.Waiters < 1 || c.Event.Waiters > MaxWaiters {
		errors = append(errors, ValidationError{
			Field:   "event.waiters",
			Value:   c.Event.Waiters,
			Message: fmt.Sprintf("must be between 1 and %d", MaxWaiters),
		})
	}
	errors = append(errors, positive("event.rounds", c.Event.Rounds)...)
	errors = append(errors, timeoutMs("event.wait_timeout_ms", c.Event.WaitTimeoutMs)...)

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if _, err := observability.ParseLevel(c.Logging.Level); err != nil {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be one of: debug, info, warn, error",
		})
	}
	if _, err := observability.ParseFormat(c.Logging.Format); err != nil {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: "must be one of: text, json",
		})
	}
	if c.Logging.Sampling.Enabled {
		if r := c.Logging.Sampling.Rate; r <= 0 || r > 1 {
			errors = append(errors, ValidationError{
				Field:   "logging.sampling.rate",
				Value:   r,
				Message: "must be greater than 0 and at most 1",
			})
		}
		if c.Logging.Sampling.MaxPerSecond < 0 {
			errors = append(errors, ValidationError{
				Field:   "logging.sampling.max_per_second",
				Value:   c.Logging.Sampling.MaxPerSecond,
				Message: "must be 0 (no cap) or positive",
			})
		}
	}

	return errors
}

// validateOutput validates the OutputConfig
func (c *Config) validateOutput() []ValidationError {
	switch strings.ToLower(c.Output.Format) {
	case "", "text", "yaml":
		return nil
	}
	return []ValidationError{{
		Field:   "output.format",
		Value:   c.Output.Format,
		Message: "must be one of: text, yaml",
	}}
}
