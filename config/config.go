// Package config loads the settings of a verlet run from .env files and
// VERLET_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sarchlab/verlet/datarecording"
	"github.com/sarchlab/verlet/sim"
	"github.com/sarchlab/verlet/timing"
)

// ErrInvalid is wrapped by every validation and parse error.
var ErrInvalid = errors.New("config: invalid setting")

// Environment variable names.
const (
	EnvTickRate     = "VERLET_TICK_RATE"
	EnvFrameRate    = "VERLET_FRAME_RATE"
	EnvMaxBacklog   = "VERLET_MAX_BACKLOG"
	EnvIterations   = "VERLET_ITERATIONS"
	EnvPriorities   = "VERLET_PRIORITIES"
	EnvStrict       = "VERLET_STRICT"
	EnvMonitorPort  = "VERLET_MONITOR_PORT"
	EnvRecordPath   = "VERLET_RECORD_PATH"
	EnvPureGoSQLite = "VERLET_PURE_GO_SQLITE"
)

// Config holds the settings of a run.
type Config struct {
	TickRate     timing.Freq
	FrameRate    timing.Freq
	MaxBacklog   int
	Iterations   int
	Priorities   []string
	Strict       bool
	MonitorPort  int
	RecordPath   string
	PureGoSQLite bool
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		TickRate:   60 * timing.Hz,
		FrameRate:  60 * timing.Hz,
		MaxBacklog: 100,
		Iterations: 10,
		Priorities: []string{"pin", "distance"},
	}
}

// Load starts from Default, applies the variables found in the given .env
// files, then the VERLET_* variables of the process environment, and
// validates the result. Files that do not exist are skipped. Variables set in
// the environment win over the files.
func Load(paths ...string) (Config, error) {
	values := make(map[string]string)

	for _, path := range paths {
		fileValues, err := godotenv.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}

		for k, v := range fileValues {
			values[k] = v
		}
	}

	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, "VERLET_") {
			values[k] = v
		}
	}

	c := Default()
	if err := c.apply(values); err != nil {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c *Config) apply(values map[string]string) error {
	var err error

	for k, v := range values {
		switch k {
		case EnvTickRate:
			c.TickRate, err = parseFreq(v)
		case EnvFrameRate:
			c.FrameRate, err = parseFreq(v)
		case EnvMaxBacklog:
			c.MaxBacklog, err = strconv.Atoi(v)
		case EnvIterations:
			c.Iterations, err = strconv.Atoi(v)
		case EnvPriorities:
			c.Priorities = parseList(v)
		case EnvStrict:
			c.Strict, err = strconv.ParseBool(v)
		case EnvMonitorPort:
			c.MonitorPort, err = strconv.Atoi(v)
		case EnvRecordPath:
			c.RecordPath = v
		case EnvPureGoSQLite:
			c.PureGoSQLite, err = strconv.ParseBool(v)
		}

		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, k, v, err)
		}
	}

	return nil
}

func parseFreq(s string) (timing.Freq, error) {
	f, err := strconv.ParseFloat(s, 64)
	return timing.Freq(f), err
}

func parseList(s string) []string {
	var list []string

	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}

	return list
}

// Validate checks that the settings can build a simulator.
func (c Config) Validate() error {
	switch {
	case !c.TickRate.Valid():
		return fmt.Errorf("%w: tick rate %v must be positive and finite",
			ErrInvalid, float64(c.TickRate))
	case !c.FrameRate.Valid():
		return fmt.Errorf("%w: frame rate %v must be positive and finite",
			ErrInvalid, float64(c.FrameRate))
	case c.MaxBacklog < 1:
		return fmt.Errorf("%w: max backlog must be at least 1", ErrInvalid)
	case c.Iterations < 1:
		return fmt.Errorf("%w: iterations must be at least 1", ErrInvalid)
	case c.MonitorPort < 0 || c.MonitorPort > 65535:
		return fmt.Errorf("%w: monitor port %d out of range",
			ErrInvalid, c.MonitorPort)
	}

	return nil
}

// Builder returns a simulator builder carrying the settings.
func (c Config) Builder() sim.Builder {
	b := sim.MakeBuilder().
		WithTickRate(c.TickRate).
		WithMaxBacklog(c.MaxBacklog).
		WithIterations(c.Iterations).
		WithPriorities(c.Priorities)

	if c.Strict {
		b = b.WithStrictRegistration()
	}

	return b
}

// NewRecorder opens a data recorder at RecordPath with the configured SQLite
// driver.
func (c Config) NewRecorder() datarecording.DataRecorder {
	if c.PureGoSQLite {
		return datarecording.NewPureGo(c.RecordPath)
	}

	return datarecording.New(c.RecordPath)
}
