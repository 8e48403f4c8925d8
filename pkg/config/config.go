// Package config loads chain files.
//
// A chain file describes the rod specs of a linkage together with the
// parameters that drive it. TOML, YAML and JSON are accepted; the format
// is chosen by file extension. A minimal TOML file:
//
//	[drive]
//	mode = "angle"
//	theta = 0.8
//
//	[[units]]
//	a = 1.0
//	b = 1.0
//	c = 0.6
//	d = 0.4
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults. Rod specs are not validated here; the solver reports invalid
// units with their index.
package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/linkagesim/pkg/dimension"
	"github.com/matzehuels/linkagesim/pkg/errors"
	"github.com/matzehuels/linkagesim/pkg/scissor"
)

// Defaults for omitted fields.
const (
	DefaultSweepFrom  = 0.8
	DefaultSweepTo    = 0.5
	DefaultSweepSteps = 31
	DefaultCacheTTL   = 7 * 24 * time.Hour
)

// Format is a chain file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from path's extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported chain file extension: %q (use .toml, .yaml or .json)", filepath.Ext(path))
}

// File is a decoded chain file.
type File struct {
	Units []dimension.RodSpec `json:"units" toml:"units" yaml:"units"`
	Drive Drive               `json:"drive" toml:"drive" yaml:"drive"`
	Sweep Sweep               `json:"sweep" toml:"sweep" yaml:"sweep"`
	Cache Cache               `json:"cache" toml:"cache" yaml:"cache"`
}

// Drive holds the parameters of a single solve.
type Drive struct {
	Mode     string  `json:"mode" toml:"mode" yaml:"mode"`
	Topology string  `json:"topology" toml:"topology" yaml:"topology"`
	Theta    float64 `json:"theta" toml:"theta" yaml:"theta"`
	Offset   float64 `json:"offset" toml:"offset" yaml:"offset"`
	Heading  float64 `json:"heading" toml:"heading" yaml:"heading"`
}

// Sweep is the theta range of a sweep, inclusive at both ends.
type Sweep struct {
	From  float64 `json:"from" toml:"from" yaml:"from"`
	To    float64 `json:"to" toml:"to" yaml:"to"`
	Steps int     `json:"steps" toml:"steps" yaml:"steps"`
}

// Cache selects where solved results are kept.
type Cache struct {
	Backend   string `json:"backend" toml:"backend" yaml:"backend"`
	RedisAddr string `json:"redis_addr" toml:"redis_addr" yaml:"redis_addr"`
	TTL       string `json:"ttl" toml:"ttl" yaml:"ttl"`

	ttl time.Duration
}

// TTLDuration returns the parsed TTL.
func (c Cache) TTLDuration() time.Duration { return c.ttl }

// Load reads and decodes the chain file at path.
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return f, nil
}

// Parse decodes data, applies defaults and checks enum fields.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	if err := decode(data, format, &f); err != nil {
		return nil, err
	}
	if err := f.normalize(); err != nil {
		return nil, err
	}
	return &f, nil
}

func decode(data []byte, format Format, f *File) error {
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), f)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil && err != io.EOF {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return nil
}

func (f *File) normalize() error {
	mode, err := scissor.ParseMode(f.Drive.Mode)
	if err != nil {
		return err
	}
	topo, err := scissor.ParseTopology(f.Drive.Topology)
	if err != nil {
		return err
	}
	f.Drive.Mode, f.Drive.Topology = mode.String(), topo.String()

	if f.Sweep == (Sweep{}) {
		f.Sweep = Sweep{From: DefaultSweepFrom, To: DefaultSweepTo, Steps: DefaultSweepSteps}
	}
	if f.Sweep.Steps == 0 {
		f.Sweep.Steps = DefaultSweepSteps
	}
	if f.Sweep.Steps < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "sweep steps must be positive, got %d", f.Sweep.Steps)
	}

	switch strings.ToLower(f.Cache.Backend) {
	case "":
		f.Cache.Backend = "file"
	case "file", "redis", "none":
		f.Cache.Backend = strings.ToLower(f.Cache.Backend)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid cache backend: %s (must be 'file', 'redis' or 'none')", f.Cache.Backend)
	}
	if f.Cache.Backend == "redis" && f.Cache.RedisAddr == "" {
		f.Cache.RedisAddr = "localhost:6379"
	}
	f.Cache.ttl = DefaultCacheTTL
	if f.Cache.TTL != "" {
		d, err := time.ParseDuration(f.Cache.TTL)
		if err != nil || d < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "invalid cache ttl: %q", f.Cache.TTL)
		}
		f.Cache.ttl = d
	}
	return nil
}

// Store returns a dimension store holding the file's units.
func (f *File) Store() (*dimension.Store, error) {
	return dimension.FromSpecs(f.Units)
}

// SolverOptions returns the solver options the drive section selects.
func (f *File) SolverOptions() []scissor.Option {
	mode, _ := scissor.ParseMode(f.Drive.Mode)
	topo, _ := scissor.ParseTopology(f.Drive.Topology)
	return []scissor.Option{
		scissor.WithMode(mode),
		scissor.WithTopology(topo),
		scissor.WithHeading(f.Drive.Heading),
	}
}

// Thetas returns the sweep's theta values.
func (f *File) Thetas() []float64 {
	return scissor.Linspace(f.Sweep.From, f.Sweep.To, f.Sweep.Steps)
}
