// Package config loads runtime settings from a YAML file, an optional .env
// file and the process environment, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-elevator-controller/pkg/elevator"
)

// ElevatorSection configures the car.
type ElevatorSection struct {
	ID         string        `yaml:"id"`
	Floors     int           `yaml:"floors"`
	Capacity   int           `yaml:"capacity"`
	TravelTime time.Duration `yaml:"travelTime"`
	DwellTime  time.Duration `yaml:"dwellTime"`
	UnitWeight float64       `yaml:"unitWeight"`
}

// LogSection configures the slog handler and the diagnostics journal.
type LogSection struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	EventFile string `yaml:"eventFile"`
}

// ServerSection configures the web front end.
type ServerSection struct {
	Port string `yaml:"port"`
}

// Config is the full application configuration.
type Config struct {
	Elevator ElevatorSection `yaml:"elevator"`
	Log      LogSection      `yaml:"log"`
	Server   ServerSection   `yaml:"server"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Elevator: ElevatorSection{
			ID:         "car-1",
			Floors:     10,
			Capacity:   1000,
			TravelTime: elevator.DefaultTravelTime,
			DwellTime:  elevator.DefaultDwellTime,
			UnitWeight: elevator.DefaultUnitWeight,
		},
		Log: LogSection{
			Level: "info",
		},
		Server: ServerSection{
			Port: "8080",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// path is empty; the .env file (if present) and the environment are applied
// afterwards.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if err := loadEnvFiles(envFiles); err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// loadEnvFiles populates the environment from .env files without overriding
// variables that are already set. Missing files are skipped.
func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ELEVATOR_ID"); v != "" {
		c.Elevator.ID = v
	}
	if err := envInt("ELEVATOR_FLOORS", &c.Elevator.Floors); err != nil {
		return err
	}
	if err := envInt("ELEVATOR_CAPACITY", &c.Elevator.Capacity); err != nil {
		return err
	}
	if err := envDuration("ELEVATOR_TRAVEL_TIME", &c.Elevator.TravelTime); err != nil {
		return err
	}
	if err := envDuration("ELEVATOR_DWELL_TIME", &c.Elevator.DwellTime); err != nil {
		return err
	}
	if err := envFloat("ELEVATOR_UNIT_WEIGHT", &c.Elevator.UnitWeight); err != nil {
		return err
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("LOG_EVENT_FILE"); v != "" {
		c.Log.EventFile = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// Validate checks the ranges the controller accepts.
func (c Config) Validate() error {
	e := c.Elevator
	if e.Floors < elevator.MinFloors || e.Floors > elevator.MaxFloors {
		return fmt.Errorf("%w: floors %d not in [%d,%d]", elevator.ErrInvalidConfig, e.Floors, elevator.MinFloors, elevator.MaxFloors)
	}
	if e.Capacity < elevator.MinCapacity {
		return fmt.Errorf("%w: capacity %d below %d", elevator.ErrInvalidConfig, e.Capacity, elevator.MinCapacity)
	}
	if e.TravelTime <= 0 || e.DwellTime <= 0 {
		return fmt.Errorf("%w: travel and dwell time must be positive", elevator.ErrInvalidConfig)
	}
	if e.UnitWeight <= 0 {
		return fmt.Errorf("%w: unit weight must be positive", elevator.ErrInvalidConfig)
	}
	return nil
}

// ElevatorConfig converts the elevator section for elevator.New.
func (c Config) ElevatorConfig() elevator.Config {
	cfg := elevator.DefaultConfig(c.Elevator.Floors, c.Elevator.Capacity)
	cfg.ID = c.Elevator.ID
	cfg.TravelTime = c.Elevator.TravelTime
	cfg.DwellTime = c.Elevator.DwellTime
	cfg.UnitWeight = c.Elevator.UnitWeight
	return cfg
}
