// Package playground streams content generation and improvement sessions
// from the unified endpoint and exposes their reasoning, incremental text
// and final structured result.
//
// This file re-exports configuration and state types so callers rarely need
// the sub-packages directly.
package playground

import (
	"github.com/guiperry/playground/config"
	"github.com/guiperry/playground/llm"
	"github.com/guiperry/playground/utils"
)

// Re-export core configuration types for easier access
type (
	// Config holds the endpoint, model and runtime settings of a Client.
	//
	// Example usage:
	//   cfg := NewConfig()
	//   ApplyOptions(cfg, SetModel("reasoning"), SetLogLevel(LogLevelInfo))
	Config = config.Config

	// ConfigOption modifies a Config.
	ConfigOption = config.ConfigOption

	// LogLevel defines the verbosity of logging output.
	LogLevel = utils.LogLevel

	// State is the observable snapshot of a session.
	State = llm.State

	// Phase is the coarse progress indicator of a session.
	Phase = llm.Phase

	// Observer receives every state change of a session.
	Observer = llm.Observer

	// Usage holds token estimates for a completed session.
	Usage = llm.Usage
)

// Re-export core configuration functions
var (
	// LoadConfig reads PLAYGROUND_* environment variables on top of the defaults.
	//
	// Example usage:
	//   cfg, err := LoadConfig()
	//   if err != nil {
	//       log.Fatal(err)
	//   }
	LoadConfig = config.LoadConfig

	// ApplyOptions applies a series of ConfigOption functions to a Config.
	ApplyOptions = config.ApplyOptions

	NewConfig = config.NewConfig // Creates a new Config with default values
)

var (
	// Endpoint configuration
	SetAPIBase      = config.SetAPIBase      // Sets the API base URL
	SetModel        = config.SetModel        // Sets the default model (auto, fast, reasoning)
	SetExtraHeaders = config.SetExtraHeaders // Sets additional HTTP headers

	// Runtime configuration
	SetTimeout        = config.SetTimeout        // Bounds a whole session; zero means none
	SetReadBufferSize = config.SetReadBufferSize // Sets the stream read chunk size
	SetStartRate      = config.SetStartRate      // Throttles session starts
	SetTokenEncoding  = config.SetTokenEncoding  // Enables token usage estimates
	SetLogLevel       = config.SetLogLevel       // Sets logging verbosity
	SetLogger         = config.SetLogger         // Replaces the default logger
)

// Phase constants
const (
	PhaseNone       = llm.PhaseNone
	PhaseConnecting = llm.PhaseConnecting
	PhaseThinking   = llm.PhaseThinking
	PhaseGenerating = llm.PhaseGenerating
	PhaseComplete   = llm.PhaseComplete
	PhaseError      = llm.PhaseError
)

// LogLevel constants define available logging verbosity levels
const (
	LogLevelOff   = utils.LogLevelOff   // Disables all logging
	LogLevelError = utils.LogLevelError // Logs only errors
	LogLevelWarn  = utils.LogLevelWarn  // Logs warnings and errors
	LogLevelInfo  = utils.LogLevelInfo  // Logs info, warnings, and errors
	LogLevelDebug = utils.LogLevelDebug // Logs all messages including debug
)
