package arclength

// Config holds the tunables for building and querying arc length tables.
// RawSamples and TableSize are independent of each other.
type Config struct {
	RawSamples    int     // parameter steps of the raw pass
	TableSize     int     // entries of the published table
	DomainEpsilon float64 // keeps the upper parameter inside the last span
	TangentStep   float64 // parameter step for estimating tangents
}

// DefaultConfig returns the default configuration: 1000 raw samples and a
// table of 101 entries (0%…100%).
func DefaultConfig() Config {
	return Config{
		RawSamples:    1000,
		TableSize:     101,
		DomainEpsilon: 0.0001,
		TangentStep:   0.0005,
	}
}

// Normalized returns a copy of cfg where every unusable value (counts too
// small, epsilons not positive) is replaced by its default.
func (cfg Config) Normalized() Config {
	def := DefaultConfig()
	if cfg.RawSamples < 1 {
		cfg.RawSamples = def.RawSamples
	}
	if cfg.TableSize < 2 {
		cfg.TableSize = def.TableSize
	}
	if !(cfg.DomainEpsilon > 0) || cfg.DomainEpsilon >= 1 {
		cfg.DomainEpsilon = def.DomainEpsilon
	}
	if !(cfg.TangentStep > 0) || cfg.TangentStep >= 1 {
		cfg.TangentStep = def.TangentStep
	}
	return cfg
}
