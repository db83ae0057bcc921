package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Versifine/stride/internal/body"
	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/debug"
	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/logger"
	"github.com/Versifine/stride/internal/movement"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/sim"
	"github.com/Versifine/stride/internal/world"
	"github.com/alecthomas/kong"
)

const defaultConfigPath = "configs/config.yaml"

var CLI struct {
	Debug bool `help:"Whether to enable debug logging."`

	Run struct {
		Config string `arg:"" optional:"" name:"config" help:"Configuration file." type:"path"`
		Watch  bool   `help:"Play the script again whenever the configuration changes." short:"w"`
	} `cmd:"" help:"Play the configured input script headless and log samples."`

	Play struct {
		Config string `arg:"" optional:"" name:"config" help:"Configuration file." type:"path"`
	} `cmd:"" help:"Drive a player from the terminal."`

	Config struct {
	} `cmd:"" help:"Write the default configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	if len(os.Args) == 1 {
		if err := runCommand("", false); err != nil {
			writeError(err)
		}
		return
	}

	ctx := kong.Parse(&CLI,
		kong.Name("stride"),
		kong.Description("a first-person movement controller sandbox"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	var err error
	switch ctx.Command() {
	case "run", "run <config>":
		err = runCommand(CLI.Run.Config, CLI.Run.Watch)
	case "play", "play <config>":
		err = playCommand(CLI.Play.Config)
	case "config":
		err = configCommand()
	}
	if err != nil {
		writeError(err)
	}
}

func configCommand() error {
	data, err := config.Default().Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// loadConfig falls back to the built-in defaults only when no path was
// given and the default file is absent.
func loadConfig(path string) (*config.Config, string, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, "", fmt.Errorf("load config %s: %w", path, err)
		}
		cfg, path = config.Default(), ""
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}
	if CLI.Debug {
		cfg.Logging.Level = "debug"
	}
	return cfg, path, nil
}

func initLogging(cfg *config.Config) {
	err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		slog.Warn("Logging to stdout only", "error", err)
	}
}

type scene struct {
	state  *world.WorldState
	store  *world.BlockStore
	runner *sim.Runner
	bodies []*body.Body
}

func buildScene(cfg *config.Config) (*scene, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	store, err := level.Build()
	if err != nil {
		return nil, fmt.Errorf("build level: %w", err)
	}
	kind, err := cfg.Controller.Kind()
	if err != nil {
		return nil, err
	}

	q := physics.NewVoxelQuery(store, level.CellSize)
	state := world.NewWorldState()
	bus := newEventBus()
	runner := sim.NewRunner(state, level.Spawn, level.KillY)
	runner.SetPublisher(bus)
	s := &scene{state: state, store: store, runner: runner}

	for i := 0; i < cfg.Sim.Players; i++ {
		controller, initial, err := movement.New(cfg.Controller.Config, kind, level.Spawn)
		if err != nil {
			return nil, err
		}
		controller.SetBody(physics.BodyID(i + 1))
		sampler := input.NewSampler(cfg.Controller.Sensitivity, cfg.Controller.Pitch, cfg.Controller.Yaw)
		b := body.New(fmt.Sprintf("p%d", i+1), controller, initial, sampler, q, cfg.Camera, state)
		b.SetPublisher(bus)
		if err := runner.Add(b); err != nil {
			return nil, err
		}
		s.bodies = append(s.bodies, b)
	}

	slog.Info("Scene ready",
		"level", level.Name,
		"blocks", len(level.Boxes),
		"chunks", store.LoadedChunkCount(),
		"collider", kind,
		"players", len(s.bodies),
		"spawn", level.Spawn,
	)
	return s, nil
}

func newEventBus() *event.Bus {
	bus := event.NewBus()
	bus.Subscribe(event.EventPhaseChanged, func(raw any) {
		evt, ok := raw.(event.PhaseChangedEvent)
		if !ok || evt.From != movement.PhaseAirborne.String() {
			return
		}
		slog.Info("Landed", "player", evt.Player, "on", evt.To, "pos", evt.Position, "impact", -evt.Velocity.Y())
	})
	bus.Subscribe(event.EventRespawned, func(raw any) {
		if evt, ok := raw.(event.RespawnedEvent); ok {
			slog.Info("Respawned", "player", evt.Player, "fell_to", evt.From, "spawn", evt.To)
		}
	})
	return bus
}

func runCommand(path string, watch bool) error {
	cfg, path, err := loadConfig(path)
	if err != nil {
		return err
	}
	initLogging(cfg)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var watcher *config.Watcher
	if watch {
		if path == "" {
			return fmt.Errorf("--watch needs a configuration file")
		}
		paths := []string{path}
		if cfg.World.Level != "" {
			paths = append(paths, cfg.World.Level)
		}
		watcher, err = config.NewWatcher(paths...)
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		defer watcher.Close()
	}

	for {
		if err := play(ctx, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if watcher == nil {
				return err
			}
			slog.Error("Script failed", "error", err)
		}
		if watcher == nil {
			return nil
		}

		slog.Info("Waiting for changes", "path", path)
		next := awaitReload(ctx, watcher, path)
		if next == nil {
			return nil
		}
		cfg = next
	}
}

func play(ctx context.Context, cfg *config.Config) error {
	s, err := buildScene(cfg)
	if err != nil {
		return err
	}
	if err := s.runner.Play(ctx, cfg.Sim.Script, cfg.Sim.TickRate, cfg.Sim.Duration); err != nil {
		return err
	}
	slog.Info("Final state", "snapshot", s.state.GetState().String())
	return nil
}

// awaitReload blocks until the watched files change into a valid config.
// It returns nil when ctx ends first.
func awaitReload(ctx context.Context, watcher *config.Watcher, path string) *config.Config {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Config watch error", "error", err)
		case changed, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			cfg, _, err := loadConfig(path)
			if err != nil {
				slog.Error("Config reload failed", "file", changed, "error", err)
				continue
			}
			slog.Info("Config reloaded", "file", changed)
			return cfg
		}
	}
}

func playCommand(path string) error {
	cfg, _, err := loadConfig(path)
	if err != nil {
		return err
	}
	cfg.Sim.Players = 1
	initLogging(cfg)
	defer logger.Close()

	s, err := buildScene(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console := debug.NewConsole(s.bodies[0], s.runner, s.state, s.store, cfg.Sim.TickRate)
	return console.Start(ctx)
}
