// internal/workers/recruiting/get-candidate/config.go
package getcandidate

import (
	"time"

	"jobmatch-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// FullAnalysis attaches the match rationale to every read.
	FullAnalysis bool
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{Timeout: timeout, FullAnalysis: true}
}
