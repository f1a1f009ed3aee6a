// Package soak loads soak-test configuration and runs sustained workloads
// against the message queue and event group, checking ordering, delivery and
// reset cancellation under load.
package soak
