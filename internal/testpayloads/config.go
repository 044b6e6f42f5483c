package testpayloads

// Config controls synthetic payload generation.
type Config struct {
	// NumPayloads is the number of payload files to generate.
	NumPayloads int

	// OutputDir receives one payload JSON file per synthetic user.
	OutputDir string

	// Platform is stamped on every generated profile.
	Platform string

	// Seed makes generation reproducible. Zero picks a time-based seed.
	Seed int64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		NumPayloads: 10,
		OutputDir:   "payloads",
		Platform:    "leetcode",
		Seed:        0,
	}
}
