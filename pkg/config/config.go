// Package config loads mindlayout settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/mindlayout/config.toml (falling back to
// ~/.config/mindlayout/config.toml). Every key is optional: [Load] starts
// from [Default] and overlays whatever the file sets, so a missing file is
// equivalent to an empty one.
//
//	[layout]
//	strategy = "radial"
//	base_radius = 250.0
//	sector_gap_deg = 6.0
//
//	[cache]
//	backend = "tiered"
//	ttl = "24h"
//	redis_url = "redis://localhost:6379/0"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
// A handful of settings can also be supplied through the environment (see
// [Config.ApplyEnv]) so credentials stay out of the file.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/mindlayout/pkg/cache"
	"github.com/matzehuels/mindlayout/pkg/errors"
	"github.com/matzehuels/mindlayout/pkg/layout"
)

const (
	appName  = "mindlayout"
	fileName = "config.toml"
)

// Cache backends.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendTiered = "tiered"
)

// Environment variables read by [Config.ApplyEnv].
const (
	EnvCacheBackend = "MINDLAYOUT_CACHE_BACKEND"
	EnvRedisURL     = "MINDLAYOUT_REDIS_URL"
	EnvMongoURI     = "MINDLAYOUT_MONGO_URI"
	EnvServerAddr   = "MINDLAYOUT_ADDR"
)

// =============================================================================
// Config Types
// =============================================================================

// Config is the complete settings file.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig holds engine parameters. Angles are in degrees.
type LayoutConfig struct {
	Strategy       string  `toml:"strategy" validate:"oneof=radial force"`
	BaseRadius     float64 `toml:"base_radius" validate:"gt=0"`
	DepthIncrement float64 `toml:"depth_increment" validate:"gt=0"`
	ChildSpreadDeg float64 `toml:"child_spread_deg" validate:"gt=0,lte=360"`
	SectorGapDeg   float64 `toml:"sector_gap_deg" validate:"gte=0,lte=30"`
	MinSectorDeg   float64 `toml:"min_sector_deg" validate:"gt=0,lte=120"`
	NodePadding    float64 `toml:"node_padding" validate:"gte=0"`
	MaxPasses      int     `toml:"max_passes" validate:"gt=0,lte=1000"`
	Seed           uint64  `toml:"seed"`
}

// CacheConfig selects and configures the layout cache.
type CacheConfig struct {
	Backend         string        `toml:"backend" validate:"oneof=none file redis mongo tiered"`
	Dir             string        `toml:"dir,omitempty"`
	TTL             time.Duration `toml:"ttl" validate:"gte=0"`
	RedisURL        string        `toml:"redis_url,omitempty" validate:"required_if=Backend redis,required_if=Backend tiered"`
	RedisPrefix     string        `toml:"redis_prefix,omitempty"`
	MongoURI        string        `toml:"mongo_uri,omitempty" validate:"required_if=Backend mongo,required_if=Backend tiered"`
	MongoDatabase   string        `toml:"mongo_database" validate:"required_if=Backend mongo,required_if=Backend tiered"`
	MongoCollection string        `toml:"mongo_collection" validate:"required_if=Backend mongo,required_if=Backend tiered"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr" validate:"required"`
	ReadTimeout  time.Duration `toml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `toml:"write_timeout" validate:"gte=0"`
	MaxBodyBytes int64         `toml:"max_body_bytes" validate:"gt=0"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Strategy:       string(layout.StrategyRadial),
			BaseRadius:     layout.DefaultBaseRadius,
			DepthIncrement: layout.DefaultDepthIncrement,
			ChildSpreadDeg: layout.DefaultChildSpreadDeg,
			SectorGapDeg:   layout.DefaultSectorGapDeg,
			MinSectorDeg:   layout.DefaultMinSectorDeg,
			NodePadding:    layout.DefaultNodePadding,
			MaxPasses:      layout.DefaultMaxPasses,
			Seed:           layout.DefaultSeed,
		},
		Cache: CacheConfig{
			Backend:         BackendFile,
			TTL:             cache.TTLLayout,
			RedisPrefix:     appName + ":",
			MongoDatabase:   appName,
			MongoCollection: "cache",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 4 << 20,
		},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Path returns the default config file location.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the config at path over [Default]. An empty path means the
// default location, where a missing file is not an error. An explicit path
// that does not exist returns FILE_NOT_FOUND.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := Decode(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode overlays TOML data onto cfg and validates the result. Unknown keys
// are rejected so typos do not pass silently.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Encode writes cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// ApplyEnv overrides settings from the MINDLAYOUT_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvCacheBackend); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Cache.MongoURI = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
}

// =============================================================================
// Validation
// =============================================================================

var validate = newValidator()

// newValidator reports field names by their TOML key.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every section. The first failing field is reported with
// its TOML path.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return c.validateURLs()
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}
	fe := verrs[0]
	return errors.New(errors.ErrCodeInvalidConfig, "%s: failed %q check (value %v)",
		tomlPath(fe.Namespace()), fe.Tag(), fe.Value())
}

func (c Config) validateURLs() error {
	if c.Cache.RedisURL != "" {
		if err := errors.ValidateURL(c.Cache.RedisURL, "redis", "rediss", "unix"); err != nil {
			return err
		}
	}
	if c.Cache.MongoURI != "" {
		if err := errors.ValidateURL(c.Cache.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return err
		}
	}
	return nil
}

// tomlPath maps "Config.cache.redis_url" to "cache.redis_url".
func tomlPath(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	return rest
}

// =============================================================================
// Conversions
// =============================================================================

// Options converts the layout section to engine options.
func (l LayoutConfig) Options() layout.Options {
	o := layout.DefaultOptions()
	o.Strategy = layout.Strategy(l.Strategy)
	o.BaseRadius = l.BaseRadius
	o.DepthIncrement = l.DepthIncrement
	o.ChildSpread = layout.Radians(l.ChildSpreadDeg)
	o.SectorGap = layout.Radians(l.SectorGapDeg)
	o.MinSectorAngle = layout.Radians(l.MinSectorDeg)
	o.NodePadding = l.NodePadding
	o.MaxPasses = l.MaxPasses
	o.Seed = l.Seed
	return o
}
