package config

import "time"

// Sessions configures the calculator session store and its janitor.
type Sessions struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// LoadSessions reads SESSION_TTL and SESSION_SWEEP_INTERVAL. A TTL of zero
// disables expiry; the sweep interval must be positive.
func LoadSessions() (Sessions, error) {
	var (
		s   Sessions
		err error
	)
	if s.TTL, err = Duration("SESSION_TTL", 30*time.Minute); err != nil {
		return Sessions{}, err
	}
	if s.SweepInterval, err = Interval("SESSION_SWEEP_INTERVAL", time.Minute); err != nil {
		return Sessions{}, err
	}
	return s, nil
}
