package core

import "time"

// Settings represents the main configuration for the application
type Settings struct {
	APIURL        string        // Base URL of the prediction service
	DataDir       string        // Read bars from CSV files here instead of the service
	Port          int           // Chart server port
	DefaultSymbol string        // Symbol shown when none is requested
	ChartHeight   int           // Fixed chart height in logical pixels
	HTTPTimeout   time.Duration // Timeout for calls to the prediction service
	Debug         bool          // Serve unminified chart scripts
	Log           LogSettings   // Logger configuration
}

// LogSettings holds logger configuration
type LogSettings struct {
	Level      string // trace, debug, info, warn, error
	TimeFormat string // Layout used by the console writer
	Colored    bool   // Colorize console output
	JSON       bool   // Emit raw JSON instead of console output
}
