package impulse

import (
	"errors"
	"fmt"
	"os"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/broadphase"
	"github.com/akmonengine/impulse/constraint"
	"github.com/akmonengine/impulse/debugdraw"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid physics config")

// Config is the world's configuration surface. Every field has a YAML name;
// enumerations are written by name.
type Config struct {
	// Gravity acceleration (m/s², or N/kg)
	Gravity mgl64.Vec3 `yaml:"gravity"`
	// Damping is the exponential velocity damping rate, per second.
	Damping    float64                 `yaml:"damping"`
	Integrator actor.IntegrationScheme `yaml:"integrator"`
	Broadphase broadphase.Options      `yaml:"broadphase"`

	Paused     bool            `yaml:"paused"`
	DebugFlags debugdraw.Flags `yaml:"debugFlags"`

	FixedTimestep float64 `yaml:"fixedTimestep"`
	// MaxSubSteps bounds the catch-up steps of a single Update.
	MaxSubSteps int `yaml:"maxSubSteps"`

	SolverIterations int                     `yaml:"solverIterations"`
	Solver           constraint.SolverParams `yaml:"solver"`

	// SleepThreshold is the smoothed speed² under which bodies fall asleep; 0 disables sleeping.
	SleepThreshold float64 `yaml:"sleepThreshold"`
	SleepSmoothing float64 `yaml:"sleepSmoothing"`

	// Workers sizes the default worker pool; 0 means one per CPU.
	Workers int `yaml:"workers"`
	// GroupSize is the number of bodies per integration job; 0 splits evenly.
	GroupSize int `yaml:"groupSize"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:          mgl64.Vec3{0, -9.81, 0},
		Damping:          0.01,
		Integrator:       actor.SemiImplicitEuler,
		Broadphase:       broadphase.DefaultOptions(),
		DebugFlags:       debugdraw.None,
		FixedTimestep:    1.0 / 60.0,
		MaxSubSteps:      8,
		SolverIterations: 50,
		Solver:           constraint.DefaultSolverParams(),
		SleepThreshold:   0.005,
		SleepSmoothing:   0.1,
		Workers:          0,
		GroupSize:        64,
	}
}

// ParseConfig reads YAML over DefaultConfig, so omitted fields keep their defaults.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse physics config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load physics config: %w", err)
	}
	config, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c Config) Validate() error {
	switch {
	case c.FixedTimestep <= 0:
		return fmt.Errorf("%w: fixedTimestep must be positive, got %v", ErrInvalidConfig, c.FixedTimestep)
	case c.MaxSubSteps < 1:
		return fmt.Errorf("%w: maxSubSteps must be at least 1, got %d", ErrInvalidConfig, c.MaxSubSteps)
	case c.SolverIterations < 0:
		return fmt.Errorf("%w: solverIterations cannot be negative, got %d", ErrInvalidConfig, c.SolverIterations)
	case c.Damping < 0:
		return fmt.Errorf("%w: damping cannot be negative, got %v", ErrInvalidConfig, c.Damping)
	case c.SleepThreshold < 0:
		return fmt.Errorf("%w: sleepThreshold cannot be negative, got %v", ErrInvalidConfig, c.SleepThreshold)
	case c.SleepThreshold > 0 && (c.SleepSmoothing <= 0 || c.SleepSmoothing > 1):
		return fmt.Errorf("%w: sleepSmoothing must be in (0, 1], got %v", ErrInvalidConfig, c.SleepSmoothing)
	case c.Solver.BaumgarteScalar < 0 || c.Solver.BaumgarteSlop < 0 || c.Solver.RestitutionSlop < 0 || c.Solver.PersistentThreshold < 0:
		return fmt.Errorf("%w: solver parameters cannot be negative", ErrInvalidConfig)
	case c.Workers < 0 || c.GroupSize < 0:
		return fmt.Errorf("%w: workers and groupSize cannot be negative", ErrInvalidConfig)
	}
	if _, err := c.Integrator.MarshalText(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Broadphase.Validate(); err != nil {
		return fmt.Errorf("%w: broadphase: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) integrationParams() actor.IntegrationParams {
	return actor.IntegrationParams{
		Gravity:        c.Gravity,
		Scheme:         c.Integrator,
		Damping:        c.Damping,
		SleepThreshold: c.SleepThreshold,
		SleepSmoothing: c.SleepSmoothing,
	}
}
