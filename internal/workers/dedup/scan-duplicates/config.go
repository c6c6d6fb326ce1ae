// internal/workers/dedup/scan-duplicates/config.go
package scanduplicates

import "time"

type Config struct {
	Timeout     time.Duration
	ProgressTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		// Full-roster scans are quadratic; give them room.
		Timeout:     5 * time.Minute,
		ProgressTTL: 30 * time.Minute,
	}
}
