package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mmunhall/dice-sack/internal/model"
)

type ConfigSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ConfigSuite) writeFile(content string) string {
	path := filepath.Join(s.dir, "dicesack.yml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := Load("", map[string]string{})
	s.Require().NoError(err)

	s.Equal(StorageSQLite, cfg.Storage)
	s.Equal(6, cfg.DiceCount)
	s.Equal(6, cfg.Sides)
	s.Equal("warn", cfg.LogLevel)
	s.True(cfg.Animate)
	s.Equal(time.Duration(0), cfg.RedisTTL)
	s.Equal("history.db", filepath.Base(cfg.SQLitePath))
}

func (s *ConfigSuite) TestFileOverridesDefaults() {
	path := s.writeFile(`
storage: redis
redis_url: redis://cache:6379/2
redis_ttl: 24h
dice_count: 5
animate: false
`)

	cfg, err := Load(path, map[string]string{})
	s.Require().NoError(err)

	s.Equal(StorageRedis, cfg.Storage)
	s.Equal("redis://cache:6379/2", cfg.RedisURL)
	s.Equal(24*time.Hour, cfg.RedisTTL)
	s.Equal(5, cfg.DiceCount)
	s.Equal(6, cfg.Sides) // Absent keys keep their defaults
	s.False(cfg.Animate)
}

func (s *ConfigSuite) TestPathFromEnvironment() {
	path := s.writeFile("sides: 20\n")

	cfg, err := Load("", map[string]string{PathEnv: path})
	s.Require().NoError(err)
	s.Equal(20, cfg.Sides)
}

func (s *ConfigSuite) TestEnvironmentOverridesFile() {
	path := s.writeFile("storage: memory\ndice_count: 4\n")

	cfg, err := Load(path, map[string]string{
		"DICESACK_DICE_COUNT": "2",
		"DICESACK_LOG_LEVEL":  "debug",
		"DICESACK_ANIMATE":    "false",
		"UNRELATED":           "ignored",
	})
	s.Require().NoError(err)

	s.Equal(StorageMemory, cfg.Storage)
	s.Equal(2, cfg.DiceCount)
	s.Equal("debug", cfg.LogLevel)
	s.False(cfg.Animate)
}

func (s *ConfigSuite) TestMissingFileFails() {
	_, err := Load(filepath.Join(s.dir, "absent.yml"), map[string]string{})
	s.Error(err)
}

func (s *ConfigSuite) TestMalformedFileFails() {
	path := s.writeFile("dice_count: [not, a, number]\n")
	_, err := Load(path, map[string]string{})
	s.Error(err)
}

func (s *ConfigSuite) TestMalformedEnvFails() {
	_, err := Load("", map[string]string{"DICESACK_SIDES": "six"})
	s.Error(err)
}

func (s *ConfigSuite) TestValidation() {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown storage", func(c *Config) { c.Storage = "postgres" }},
		{"zero dice", func(c *Config) { c.DiceCount = 0 }},
		{"zero sides", func(c *Config) { c.Sides = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"negative ttl", func(c *Config) { c.RedisTTL = -time.Second }},
		{"redis without url", func(c *Config) { c.Storage = StorageRedis; c.RedisURL = "" }},
		{"sqlite without path", func(c *Config) { c.SQLitePath = " " }},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			cfg := Default()
			tt.mutate(&cfg)
			s.ErrorIs(cfg.Validate(), model.ErrInvalidArgument)
		})
	}
}

func (s *ConfigSuite) TestSlogLevel() {
	cfg := Default()
	cfg.LogLevel = "warn"
	level, err := cfg.SlogLevel()
	s.Require().NoError(err)
	s.Equal("WARN", level.String())
}
