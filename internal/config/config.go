package config

import (
	"fmt"
	"math"
	"os"

	"github.com/Versifine/stride/internal/movement"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/pose"
	"github.com/Versifine/stride/internal/sim"
	"github.com/Versifine/stride/internal/world"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Sim        SimConfig        `yaml:"sim"`
	Controller ControllerConfig `yaml:"controller"`
	Camera     pose.Camera      `yaml:"camera"`
	World      WorldConfig      `yaml:"world"`
	// Spawn overrides the level's spawn point and kill plane when set.
	Spawn *SpawnConfig `yaml:"spawn,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type SimConfig struct {
	TickRate int        `yaml:"tick_rate"`
	Duration float32    `yaml:"duration"`
	Players  int        `yaml:"players"`
	Script   sim.Script `yaml:"script"`
}

type ControllerConfig struct {
	Collider        string `yaml:"collider"`
	movement.Config `yaml:",inline"`
}

type WorldConfig struct {
	// Level is a level yaml path. Empty selects the built-in playground.
	Level string `yaml:"level"`
}

type SpawnConfig struct {
	Position mgl32.Vec3 `yaml:"position"`
	KillY    float32    `yaml:"kill_y"`
}

// Host tuning on top of the controller defaults: stronger air control and a
// starting view turned toward the playground.
const (
	hostAirAcceleration = 80
	hostPitch           = -math.Pi / 6
	hostYaw             = math.Pi * 5 / 4
)

func Default() *Config {
	controller := movement.DefaultConfig()
	controller.AirAcceleration = hostAirAcceleration
	controller.Pitch = hostPitch
	controller.Yaw = hostYaw
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Sim: SimConfig{
			TickRate: 60,
			Players:  1,
			Script:   sim.DefaultScript(),
		},
		Controller: ControllerConfig{
			Collider: physics.ColliderCylinder.String(),
			Config:   controller,
		},
		Camera: pose.DefaultCamera(),
	}
}

// Load reads path over the defaults, so a partial file only overrides the
// keys it names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "text", "json":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tick_rate must be positive, got %d", c.Sim.TickRate)
	}
	if c.Sim.Duration < 0 {
		return fmt.Errorf("sim.duration must not be negative, got %v", c.Sim.Duration)
	}
	if c.Sim.Players <= 0 {
		return fmt.Errorf("sim.players must be positive, got %d", c.Sim.Players)
	}
	if err := c.Sim.Script.Validate(); err != nil {
		return fmt.Errorf("sim.script: %w", err)
	}
	kind, err := c.Controller.Kind()
	if err != nil {
		return err
	}
	if err := c.Controller.ValidateFor(kind); err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	if offset := float64(c.Camera.HeightOffset); math.IsNaN(offset) || math.IsInf(offset, 0) {
		return fmt.Errorf("camera.height_offset must be finite")
	}
	return nil
}

func (c ControllerConfig) Kind() (physics.ColliderKind, error) {
	kind, ok := physics.ParseColliderKind(c.Collider)
	if !ok {
		return 0, fmt.Errorf("controller.collider: %w: %q", movement.ErrUnsupportedCollider, c.Collider)
	}
	return kind, nil
}

// Level loads the configured level and applies the spawn override.
func (c *Config) Level() (*world.Level, error) {
	level := world.DefaultLevel()
	if c.World.Level != "" {
		loaded, err := world.LoadLevel(c.World.Level)
		if err != nil {
			return nil, fmt.Errorf("load level %s: %w", c.World.Level, err)
		}
		level = loaded
	}
	if c.Spawn != nil {
		level.Spawn = c.Spawn.Position
		level.KillY = c.Spawn.KillY
	}
	return level, nil
}
