package pipeline

import "time"

// Config is the process-wide tunable state for a pipeline manager. It is
// mutated only by Planner.Tune, which runs before any stage work starts.
type Config struct {
	ParallelEnabled    bool `json:"parallelEnabled"`
	CacheEnabled       bool `json:"cacheEnabled"`
	TimeoutSeconds     int  `json:"timeoutSeconds"`
	MaxConcurrentTools int  `json:"maxConcurrentTools"`
	RetryAttempts      int  `json:"retryAttempts"`
}

func DefaultConfig() Config {
	return Config{
		ParallelEnabled:    true,
		CacheEnabled:       true,
		TimeoutSeconds:     300,
		MaxConcurrentTools: 3,
		RetryAttempts:      2,
	}
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
