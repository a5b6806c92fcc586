package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mindlayout/pkg/errors"
	"github.com/matzehuels/mindlayout/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[layout]
strategy = "force"
base_radius = 300.0
sector_gap_deg = 0.0

[cache]
backend = "redis"
ttl = "2h"
redis_url = "redis://localhost:6379/1"

[server]
addr = "127.0.0.1:9000"
read_timeout = "5s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "force", cfg.Layout.Strategy)
	assert.Equal(t, 300.0, cfg.Layout.BaseRadius)
	assert.Equal(t, 0.0, cfg.Layout.SectorGapDeg)
	assert.Equal(t, layout.DefaultDepthIncrement, cfg.Layout.DepthIncrement, "unset keys keep defaults")

	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Cache.RedisURL)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, Default().Server.WriteTimeout, cfg.Server.WriteTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoadDefaultLocationMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "mindlayout"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "mindlayout", "config.toml"),
		[]byte("[layout]\nseed = 7\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Layout.Seed)
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "mindlayout", "config.toml"), p)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"syntax", "[layout\n", "parse config"},
		{"unknown key", "[layout]\nradius = 3.0\n", "layout.radius"},
		{"bad strategy", "[layout]\nstrategy = \"spiral\"\n", "layout.strategy"},
		{"gap too wide", "[layout]\nsector_gap_deg = 45.0\n", "layout.sector_gap_deg"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "cache.backend"},
		{"redis without url", "[cache]\nbackend = \"redis\"\n", "cache.redis_url"},
		{"tiered without mongo", "[cache]\nbackend = \"tiered\"\nredis_url = \"redis://x:1\"\n", "cache.mongo_uri"},
		{"bad redis scheme", "[cache]\nredis_url = \"http://x\"\n", "schemes"},
		{"empty addr", "[server]\naddr = \"\"\n", "server.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := Decode([]byte(tt.body), &cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "code = %s", errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = BackendMongo
	cfg.Cache.MongoURI = "mongodb://localhost:27017"

	data, err := Encode(cfg)
	require.NoError(t, err)

	got := Default()
	require.NoError(t, Decode(data, &got))
	assert.Equal(t, cfg, got)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvCacheBackend, BackendTiered)
	t.Setenv(EnvRedisURL, "redis://cache:6379")
	t.Setenv(EnvMongoURI, "mongodb://db:27017")
	t.Setenv(EnvServerAddr, ":9999")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, BackendTiered, cfg.Cache.Backend)
	assert.Equal(t, "redis://cache:6379", cfg.Cache.RedisURL)
	assert.Equal(t, "mongodb://db:27017", cfg.Cache.MongoURI)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLayoutOptions(t *testing.T) {
	lc := Default().Layout
	lc.ChildSpreadDeg = 90
	lc.SectorGapDeg = 0

	o := lc.Options()
	assert.Equal(t, layout.StrategyRadial, o.Strategy)
	assert.InDelta(t, layout.Radians(90), o.ChildSpread, 1e-12)
	assert.Equal(t, 0.0, o.SectorGap)
	assert.Equal(t, layout.DefaultRowGap, o.RowGap, "fields without a config key keep engine defaults")
}
