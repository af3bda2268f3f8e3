package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moonbase/moonrobot/internal/config"
	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "development", s.Environment)
	assert.True(t, s.Debug)
	assert.Equal(t, 8000, s.APIPort)
	assert.Equal(t, "0.0.0.0:8000", s.Addr())
	assert.Equal(t, domain.NewRobotState(4, 2, domain.West), s.StartState())
	assert.Equal(t, 3, s.ObstacleSet().Len())
	assert.Equal(t, config.DriverMemory, s.Store.Driver)
	assert.Equal(t, 30*time.Second, s.Store.LockTTL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "moonrobot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
debug: false
api_port: 9000
start_direction: north
obstacles: "0,1"
store:
  driver: redis
  lock_ttl: 5s
`), 0644))

	s, err := config.Load(path, []string{
		"MOONROBOT_API_PORT=9100",
		"MOONROBOT_START_POSITION_X=-3",
		"MOONROBOT_STORE_REDIS_ADDR=redis:6379",
		"UNRELATED=1",
	})
	require.NoError(t, err)

	assert.Equal(t, "production", s.Environment)
	assert.False(t, s.Debug)
	assert.Equal(t, 9100, s.APIPort, "environment overrides the file")
	assert.Equal(t, domain.NewRobotState(-3, 2, domain.North), s.StartState())
	assert.Equal(t, config.DriverRedis, s.Store.Driver)
	assert.Equal(t, "redis:6379", s.Store.RedisAddr)
	assert.Equal(t, "moonrobot:", s.Store.RedisPrefix, "unset nested keys keep defaults")
	assert.Equal(t, 5*time.Second, s.Store.LockTTL)
	assert.True(t, s.ObstacleSet().Contains(domain.Position{X: 0, Y: 1}))
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("robot_id: rover\n"), 0644))

	s, err := config.Load("", []string{config.ConfigEnv + "=" + path})
	require.NoError(t, err)
	assert.Equal(t, "rover", s.RobotID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  []string
	}{
		{"direction", []string{"MOONROBOT_START_DIRECTION=UP"}},
		{"port", []string{"MOONROBOT_API_PORT=70000"}},
		{"driver", []string{"MOONROBOT_STORE_DRIVER=postgres"}},
		{"obstacles", []string{"MOONROBOT_OBSTACLES=1;2"}},
		{"environment", []string{"MOONROBOT_ENVIRONMENT=staging"}},
		{"log level", []string{"MOONROBOT_LOG_LEVEL=loud"}},
		{"max length", []string{"MOONROBOT_MAX_COMMAND_LENGTH=0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load("", tt.env)
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnknownFileKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_prot: 1\n"), 0644))

	_, err := config.Load(path, nil)
	assert.Error(t, err)
}
