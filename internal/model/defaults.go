package model

import "time"

// Shared defaults used by both the service and TUI binaries.
const (
	DefaultPageSize     = 12
	DefaultPagerWindow  = 5
	DefaultQueryTimeout = 30 * time.Second
	DefaultAPIPort      = 3000
	DefaultLogLevel     = "info"
)
