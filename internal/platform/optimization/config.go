// Package optimization provides concurrency tuning for deployment profiles.
package optimization

import "runtime"

// Config holds tuned parameters for the infrastructure around the engine.
// The engine itself is single-writer and needs no tuning; these knobs size
// the pools and buffers feeding it.
type Config struct {
	// Channel buffer sizes
	BroadcastChannelBuffer int
	ClientSendBuffer       int

	// Connection pools
	DBMaxOpenConns int
	DBMaxIdleConns int
	RedisPoolSize  int

	// Event ledger
	LedgerReplayLimit int // events replayed to a freshly connected client
}

// DefaultConfig returns sensible defaults for a classroom deployment:
// a handful of dashboards, one simulation loop.
func DefaultConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		BroadcastChannelBuffer: 64,
		ClientSendBuffer:       64,

		DBMaxOpenConns: numCPU * 2,
		DBMaxIdleConns: numCPU,
		RedisPoolSize:  numCPU * 2,

		LedgerReplayLimit: 100,
	}
}

// LowResourceConfig returns minimal settings for a single laptop running
// both the server and the display.
func LowResourceConfig() *Config {
	return &Config{
		BroadcastChannelBuffer: 16,
		ClientSendBuffer:       16,

		DBMaxOpenConns: 2,
		DBMaxIdleConns: 1,
		RedisPoolSize:  2,

		LedgerReplayLimit: 25,
	}
}
