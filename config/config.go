package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/lumenrt/polaris/asset/compiler"
	"github.com/lumenrt/polaris/asset/compiler/bvh"
	"github.com/lumenrt/polaris/asset/scene/reader"
	"github.com/lumenrt/polaris/log"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrInvalidStride  = fmt.Errorf("config: compiler.triangle_stride must be >= %d", bvh.TriangleLength)
	ErrInvalidWorkers = errors.New("config: compiler.workers must be >= 0")
)

// Logging options.
type Log struct {
	// One of debug, info, notice, warning, error.
	Level string `toml:"level"`
}

// Scene compiler options.
type Compiler struct {
	// Floats per triangle record in compiled prototype arrays. Values
	// above bvh.TriangleLength add zero padding to each record.
	TriangleStride int `toml:"triangle_stride"`

	// 0 selects the number of available CPUs.
	Workers int `toml:"workers"`
}

// Output options.
type Output struct {
	// Directory for compiled archives. If empty, archives are written next
	// to their source files.
	Dir string `toml:"dir"`
}

// Application configuration.
type Config struct {
	Log      Log      `toml:"log"`
	Compiler Compiler `toml:"compiler"`
	Output   Output   `toml:"output"`
}

// Get the default configuration.
func Default() *Config {
	return &Config{
		Log: Log{
			Level: log.Notice.String(),
		},
		Compiler: Compiler{
			TriangleStride: bvh.TriangleLength,
			Workers:        runtime.NumCPU(),
		},
	}
}

// Load configuration from a TOML file. Keys missing from the file keep their
// default values; unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	decoder := toml.NewDecoder(f)
	decoder.DisallowUnknownFields()
	if err = decoder.Decode(cfg); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, fmt.Errorf("config: %s: %s", path, strictErr.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("config: %s: [%d:%d] %s", path, row, col, decodeErr.Error())
		}
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Check configuration values.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Compiler.TriangleStride < bvh.TriangleLength {
		return fmt.Errorf("%w (got %d)", ErrInvalidStride, c.Compiler.TriangleStride)
	}
	if c.Compiler.Workers < 0 {
		return ErrInvalidWorkers
	}
	return nil
}

// Get the scene reader options defined by this configuration.
func (c *Config) ReaderOptions() reader.Options {
	return reader.Options{
		TriangleStride: c.Compiler.TriangleStride,
		Compiler: compiler.Options{
			Workers: c.Compiler.Workers,
		},
	}
}
