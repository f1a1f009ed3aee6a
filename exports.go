package monitor

// Re-export core types from subpackages
import (
	"github.com/a2y-d5l/go-monitor/event"
	"github.com/a2y-d5l/go-monitor/mqueue"
	"github.com/a2y-d5l/go-monitor/wait"
)

// Core types
type Queue = mqueue.Queue
type EventGroup = event.Group
type Mask = event.Mask
type Test = event.Test
type Action = event.Action

// Timeouts
type Timeout = wait.Timeout
type Deadline = wait.Deadline

var (
	Infinite  = wait.Infinite
	Immediate = wait.Immediate
	For       = wait.For
	Millis    = wait.Millis
	NowPlus   = wait.NowPlus
)

// Predicates and actions
const (
	Any   = event.Any
	All   = event.All
	Clear = event.Clear
	Keep  = event.Keep
)

// Constructors
var (
	NewQueue      = mqueue.New
	NewEventGroup = event.New
)

// TypedQueue is a queue of fixed-size values
type TypedQueue[T any] = mqueue.Typed[T]

// NewTyped creates a queue of fixed-size values. See mqueue.NewTyped.
func NewTyped[T any](capacity uint32, opts ...QueueOption) (*TypedQueue[T], error) {
	return mqueue.NewTyped[T](capacity, opts...)
}

// Option types
type QueueOption = mqueue.Option
type EventOption = event.Option
