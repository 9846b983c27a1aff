package model

import "time"

// StatsConfig defines filters and options for history reports.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Location    string
}
