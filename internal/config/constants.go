package config

// Default configuration values
const (
	DefaultPort        = 8080
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"
	DefaultServiceName = "skirmish"
	DefaultVersion     = "dev"
	DefaultProfilePath = "configs/weapon_profiles.json"

	DefaultBatchingEnabled = true
	DefaultCacheEnabled    = true
	DefaultVerboseLogging  = false

	// Flush cadence for the pending-damage ledger
	DefaultFlushIntervalMs = 100
	// Minimum spacing between damage-dealt notifications
	DefaultNotifyCooldownMs = 500
	// Spatial sync radius in meters
	DefaultSyncRadius = 64.0

	DefaultCacheSize = 4096
	// Damage applied when a weapon has no catalog profile
	DefaultDamageValue = 5.0
)
