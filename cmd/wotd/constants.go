package main

import "time"

// Defaults for CLI commands.
const (
	DefaultRecentDays = 7
	DefaultRetries    = 0
	DefaultRetryDelay = 5 * time.Second
)
