package main

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/radius"
)

// EstimatorConfig is the YAML-facing estimator configuration. String
// fields are parsed into the typed policies of pkg/radius; anything
// unrecognized is rejected up front rather than defaulted.
type EstimatorConfig struct {
	Rays          int     `yaml:"rays"`
	Aggregate     string  `yaml:"aggregate"`
	Projection    string  `yaml:"projection"`
	Fallback      string  `yaml:"fallback"`
	FallbackValue float64 `yaml:"fallback_value"`
	Tangent       *[3]float64 `yaml:"tangent"`
	Seed          *int64  `yaml:"seed"`
	Workers       int     `yaml:"workers"`
}

// DefaultEstimatorConfig mirrors the estimator settings the interactive
// tool uses: 20 rays on a sphere, mean aggregation, kNN fallback.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		Rays:       20,
		Aggregate:  "mean",
		Projection: "sphere",
		Fallback:   "knn",
	}
}

// LoadEstimatorConfig reads an estimator configuration from a YAML file.
func LoadEstimatorConfig(path string) (EstimatorConfig, error) {
	cfg := DefaultEstimatorConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config YAML: %w", err)
	}
	return cfg, nil
}

// Build converts the YAML form into a validated radius.Config.
func (c EstimatorConfig) Build() (radius.Config, error) {
	cfg := radius.Config{
		Rays:          c.Rays,
		FallbackValue: c.FallbackValue,
	}

	var err error
	if cfg.Aggregate, err = radius.ParseAggregate(c.Aggregate); err != nil {
		return cfg, err
	}
	if cfg.Projection, err = radius.ParseProjection(c.Projection); err != nil {
		return cfg, err
	}
	if cfg.Fallback, err = radius.ParseFallback(c.Fallback); err != nil {
		return cfg, err
	}
	if c.Tangent != nil {
		cfg.Tangent = &geom.Vec3{X: c.Tangent[0], Y: c.Tangent[1], Z: c.Tangent[2]}
	}
	if c.Seed != nil {
		cfg.Rand = rand.New(rand.NewSource(*c.Seed))
	}
	return cfg, cfg.Validate()
}
