// internal/workers/dedup/merge-duplicate-group/config.go
package mergeduplicategroup

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
