// internal/workers/matching/rank-factories/config.go
package rankfactories

import "time"

type Config struct {
	CacheTTL       time.Duration
	Timeout        time.Duration
	PersistResults bool
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL:       15 * time.Minute,
		Timeout:        30 * time.Second,
		PersistResults: true,
	}
}
