package component

import (
	"strconv"

	"github.com/npillmayer/cvcurve/arclength"
	"github.com/npillmayer/schuko"
)

// Configuration keys read by ConfigFrom.
const (
	KeyRawSamples    = "cvcurve.samples.raw"
	KeyTableSize     = "cvcurve.samples.table"
	KeyDomainEpsilon = "cvcurve.epsilon.domain"
	KeyTangentStep   = "cvcurve.epsilon.tangent"
)

// ConfigFrom reads an arc length configuration from an application
// configuration. Keys not set, or set to unusable values, fall back to
// arclength.DefaultConfig().
func ConfigFrom(conf schuko.Configuration) arclength.Config {
	cfg := arclength.DefaultConfig()
	if conf == nil {
		return cfg
	}
	if conf.IsSet(KeyRawSamples) {
		cfg.RawSamples = conf.GetInt(KeyRawSamples)
	}
	if conf.IsSet(KeyTableSize) {
		cfg.TableSize = conf.GetInt(KeyTableSize)
	}
	cfg.DomainEpsilon = getFloat(conf, KeyDomainEpsilon, cfg.DomainEpsilon)
	cfg.TangentStep = getFloat(conf, KeyTangentStep, cfg.TangentStep)
	normalized := cfg.Normalized()
	if normalized != cfg {
		tracer().Infof("configuration contains invalid values, using defaults instead")
	}
	return normalized
}

func getFloat(conf schuko.Configuration, key string, dflt float64) float64 {
	if !conf.IsSet(key) {
		return dflt
	}
	f, err := strconv.ParseFloat(conf.GetString(key), 64)
	if err != nil {
		tracer().Errorf("configuration key %s: %v", key, err)
		return dflt
	}
	return f
}
