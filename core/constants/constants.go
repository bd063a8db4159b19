package constants

import "time"

// HTTP / service timeouts
const (
	DefaultTimeout  = 15 * time.Second
	ShutdownTimeout = 10 * time.Second
)

// Database pool settings
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Scheduling defaults for slot suggestion
const (
	DefaultPreferredStartHour = 9
	DefaultPreferredEndHour   = 17
	DefaultSearchWindowDays   = 7
	MinSlotDurationMinutes    = 15
	MaxSlotDurationMinutes    = 480
)

// Sync
const (
	StaleSyncThreshold = 24 * time.Hour
	ICalFetchTimeout   = 10 * time.Second
	SyncLookaheadDays  = 30
)

// Auth
const (
	TokenBlacklistTTL = 24 * time.Hour
)
