package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/moonbase/moonrobot/internal/logging"
	"github.com/moonbase/moonrobot/pkg/domain"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MOONROBOT_"

// ConfigEnv names the environment variable that points at a YAML settings file.
const ConfigEnv = EnvPrefix + "CONFIG"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Settings is the application configuration.
type Settings struct {
	Environment string `mapstructure:"environment" yaml:"environment"`
	Debug       bool   `mapstructure:"debug" yaml:"debug"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat   string `mapstructure:"log_format" yaml:"log_format"`
	APIHost     string `mapstructure:"api_host" yaml:"api_host"`
	APIPort     int    `mapstructure:"api_port" yaml:"api_port"`

	RobotID          string           `mapstructure:"robot_id" yaml:"robot_id"`
	StartPositionX   int              `mapstructure:"start_position_x" yaml:"start_position_x"`
	StartPositionY   int              `mapstructure:"start_position_y" yaml:"start_position_y"`
	StartDirection   domain.Direction `mapstructure:"start_direction" yaml:"start_direction"`
	Obstacles        string           `mapstructure:"obstacles" yaml:"obstacles"`
	MaxCommandLength int              `mapstructure:"max_command_length" yaml:"max_command_length"`

	Store StoreSettings `mapstructure:"store" yaml:"store"`
}

// StoreSettings selects and configures the persistence backend.
type StoreSettings struct {
	Driver        string        `mapstructure:"driver" yaml:"driver"`
	Path          string        `mapstructure:"path" yaml:"path"`
	RedisAddr     string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" yaml:"redis_db"`
	RedisPrefix   string        `mapstructure:"redis_prefix" yaml:"redis_prefix"`
	LockTTL       time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Settings {
	return Settings{
		Environment:      "development",
		Debug:            true,
		LogLevel:         "INFO",
		LogFormat:        "text",
		APIHost:          "0.0.0.0",
		APIPort:          8000,
		RobotID:          domain.DefaultRobotID,
		StartPositionX:   4,
		StartPositionY:   2,
		StartDirection:   domain.West,
		Obstacles:        "1,4;3,5;7,4",
		MaxCommandLength: domain.DefaultMaxCommandLength,
		Store: StoreSettings{
			Driver:      DriverMemory,
			Path:        ".moonrobot",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "moonrobot:",
			LockTTL:     30 * time.Second,
		},
	}
}

// Load builds Settings from defaults, an optional YAML file and the environment.
// environ is in os.Environ form. If path is empty, MOONROBOT_CONFIG is consulted.
func Load(path string, environ []string) (*Settings, error) {
	env := envMap(environ)
	if path == "" {
		path = env[ConfigEnv]
	}

	raw := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	for _, key := range settingKeys(reflect.TypeOf(Settings{}), nil) {
		name := EnvPrefix + strings.ToUpper(strings.Join(key, "_"))
		if v, ok := env[name]; ok {
			setPath(raw, key, v)
		}
	}

	s := Defaults()
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func decode(raw map[string]any, out *Settings) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			directionHook,
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

func directionHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(domain.Direction("")) || from.Kind() != reflect.String {
		return data, nil
	}
	return domain.ParseDirection(data.(string))
}

// settingKeys lists the mapstructure key paths of every leaf field of t.
func settingKeys(t reflect.Type, prefix []string) [][]string {
	var keys [][]string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("mapstructure")
		if name == "" || name == "-" {
			continue
		}
		path := append(append([]string{}, prefix...), name)
		if f.Type.Kind() == reflect.Struct {
			keys = append(keys, settingKeys(f.Type, path)...)
			continue
		}
		keys = append(keys, path)
	}
	return keys
}

func setPath(m map[string]any, path []string, v string) {
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}

func envMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			out[k] = v
		}
	}
	return out
}

// Validate checks cross-field constraints.
func (s *Settings) Validate() error {
	var errs []error
	if !s.StartDirection.Valid() {
		errs = append(errs, fmt.Errorf("start_direction: %w: %q", domain.ErrInvalidDirection, s.StartDirection))
	}
	if s.APIPort < 1 || s.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("api_port: %d out of range", s.APIPort))
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	switch s.Environment {
	case "development", "production", "test":
	default:
		errs = append(errs, fmt.Errorf("environment: %q is not one of development, production, test", s.Environment))
	}
	switch s.Store.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", s.Store.Driver))
	}
	if s.MaxCommandLength <= 0 {
		errs = append(errs, fmt.Errorf("max_command_length: must be positive"))
	}
	if s.RobotID == "" {
		errs = append(errs, fmt.Errorf("robot_id: must not be empty"))
	}
	if _, err := ParseObstacles(s.Obstacles); err != nil {
		errs = append(errs, fmt.Errorf("obstacles: %w", err))
	}
	return errors.Join(errs...)
}

// StartState returns the configured initial pose.
func (s *Settings) StartState() domain.RobotState {
	return domain.NewRobotState(s.StartPositionX, s.StartPositionY, s.StartDirection)
}

// ObstacleSet returns the parsed obstacle list. Call after Validate.
func (s *Settings) ObstacleSet() domain.ObstacleSet {
	set, err := ParseObstacles(s.Obstacles)
	if err != nil {
		return domain.NewObstacleSet()
	}
	return set
}

// Addr returns the HTTP listen address.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.APIHost, s.APIPort)
}
