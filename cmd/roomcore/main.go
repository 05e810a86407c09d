// roomcore - single-room mode automation
//
// This is the main entry point for the roomcore service. It turns one
// logical room-mode selection (desk / projector / bedtime) into coordinated
// commands across smart plugs and lights, an IR projector, an RF screen,
// the monitor layout, and the audio routing engine.
//
// Mode changes arrive over MQTT, the REST API, or global hotkeys; each is
// queued and applied sequentially so the room always converges on one
// coherent mode.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sawa9885/roomcore/internal/api"
	"github.com/sawa9885/roomcore/internal/broadlink"
	"github.com/sawa9885/roomcore/internal/infrastructure/config"
	"github.com/sawa9885/roomcore/internal/infrastructure/logging"
	"github.com/sawa9885/roomcore/internal/infrastructure/mqtt"
	"github.com/sawa9885/roomcore/internal/infrastructure/telemetry"
	"github.com/sawa9885/roomcore/internal/macro"
	"github.com/sawa9885/roomcore/internal/room"
	sig "github.com/sawa9885/roomcore/internal/signal"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting roomcore", "version", version, "commit", commit)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)

	// Signal store: read fully at startup, rewritten on every learn.
	signals, err := sig.Open(cfg.Signals.Path)
	if err != nil {
		return fmt.Errorf("opening signal store: %w", err)
	}
	log.Info("signal store loaded", "path", cfg.Signals.Path, "signals", signals.Count())

	// IR/RF emitter. A failed connect is not fatal: the device stays
	// registered and every send fails fast until the emitter returns,
	// while the rest of the room keeps working.
	var emitter *broadlink.Device
	if cfg.Broadlink.Host != "" {
		emitter, err = broadlink.Dial(ctx, broadlink.Config{
			Host:       cfg.Broadlink.Host,
			MAC:        cfg.Broadlink.MAC,
			DeviceType: uint16(cfg.Broadlink.DeviceType), //nolint:gosec // validated product id
			Timeout:    cfg.GetBroadlinkTimeout(),
		})
		if err != nil {
			if emitter == nil {
				return fmt.Errorf("configuring emitter: %w", err)
			}
			log.Warn("emitter unreachable, IR/RF devices will fail fast", "error", err)
		} else {
			log.Info("emitter connected", "host", cfg.Broadlink.Host)
		}
		defer emitter.Close()
	}

	var learner *sig.Learner
	if emitter != nil {
		learner = sig.NewLearner(signals, emitter)
		learner.PollInterval = cfg.GetLearnPollInterval()
		learner.Timeout = cfg.GetLearnTimeout()
	}

	// Controllers, in the configured fan-out order.
	orch := room.NewOrchestrator(log.With("component", "room"))
	if err := registerControllers(orch, cfg, signals, emitter, log); err != nil {
		return fmt.Errorf("building controllers: %w", err)
	}
	log.Info("controllers registered", "count", orch.ControllerCount(), "order", cfg.Room.Order)

	queue := room.NewQueue(orch, cfg.Room.QueueDepth, log.With("component", "queue"))
	queue.Start(ctx)
	defer queue.Close()

	// Telemetry (optional).
	if cfg.InfluxDB.Enabled {
		metrics, err := telemetry.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing telemetry")
			if closeErr := metrics.Close(); closeErr != nil {
				log.Error("error closing telemetry", "error", closeErr)
			}
		}()
		metrics.SetOnError(func(err error) {
			log.Error("telemetry write error", "error", err)
		})
		orch.OnComplete(metrics.RecordActivation)
		log.Info("telemetry connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	} else {
		log.Info("telemetry disabled")
	}

	// MQTT control surface (optional).
	if cfg.MQTT.Enabled {
		broker, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := broker.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		broker.SetLogger(log.With("component", "mqtt"))

		if err := wireMQTT(broker, queue, orch, log); err != nil {
			return fmt.Errorf("wiring MQTT: %w", err)
		}
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// REST API (optional).
	if cfg.API.Enabled {
		server, err := api.New(api.Deps{
			Config:       cfg.API,
			Logger:       log.With("component", "api"),
			Orchestrator: orch,
			Queue:        queue,
			Signals:      signals,
			Learner:      learner,
			Version:      version,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("starting API server: %w", err)
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("API disabled")
	}

	// Global hotkeys (optional; Windows only). The quit combination ends
	// the whole service, matching the keyboard-first workflow.
	macroDone := make(chan error, 1)
	if cfg.Macro.Enabled {
		trigger, err := buildTrigger(cfg, queue, log)
		if err != nil {
			return fmt.Errorf("building macro trigger: %w", err)
		}
		go func() {
			err := trigger.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				if errors.Is(err, macro.ErrUnsupported) {
					log.Warn("global hotkeys unavailable on this platform")
					return
				}
				log.Error("macro trigger stopped", "error", err)
				return
			}
			macroDone <- err
		}()
		log.Info("macro trigger enabled", "bindings", len(cfg.Macro.Bindings))
	} else {
		log.Info("macro trigger disabled")
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, cleaning up")
	case <-macroDone:
		log.Info("quit combination pressed, cleaning up")
	}

	log.Info("roomcore stopped")
	return nil
}

// wireMQTT subscribes mode commands and publishes outcomes, retained.
func wireMQTT(broker *mqtt.Client, queue *room.Queue, orch *room.Orchestrator, log *logging.Logger) error {
	err := broker.Subscribe(mqtt.TopicModeSet, 1, func(_ string, payload []byte) error {
		mode, err := room.ParseMode(string(payload))
		if err != nil {
			return err
		}
		queued, err := queue.Enqueue(mode, "mqtt")
		if err != nil {
			return err
		}
		if !queued {
			log.Warn("mode request dropped, queue full", "mode", mode, "source", "mqtt")
		}
		return nil
	})
	if err != nil {
		return err
	}

	orch.OnComplete(func(outcome room.RoomOutcome) {
		payload, err := outcomeJSON(outcome)
		if err != nil {
			log.Error("encoding room outcome", "error", err)
			return
		}
		if err := broker.PublishRetained(mqtt.TopicModeState, payload); err != nil {
			log.Warn("publishing room state", "error", err)
		}
	})
	return nil
}

// buildTrigger wires the configured hotkey bindings to the mode queue.
func buildTrigger(cfg *config.Config, queue *room.Queue, log *logging.Logger) (*macro.Trigger, error) {
	var watch []string
	bindings := make([]macro.Binding, 0, len(cfg.Macro.Bindings))
	for _, b := range cfg.Macro.Bindings {
		if _, err := room.ParseMode(b.Mode); err != nil {
			return nil, err
		}
		bindings = append(bindings, macro.Binding{Keys: b.Keys, Mode: b.Mode})
		watch = append(watch, b.Keys...)
	}
	watch = append(watch, cfg.Macro.QuitKeys...)

	listener, err := macro.NewKeyListener(watch)
	if err != nil {
		return nil, err
	}

	trigger, err := macro.NewTrigger(listener, bindings, cfg.Macro.QuitKeys, func(modeName string) {
		// Firing from the listener goroutine; the queue keeps this cheap.
		mode, err := room.ParseMode(modeName)
		if err != nil {
			return
		}
		queued, err := queue.Enqueue(mode, "macro")
		if err != nil || !queued {
			log.Warn("mode request dropped", "mode", mode, "source", "macro", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	trigger.SetLogger(log.With("component", "macro"))
	return trigger, nil
}

// getConfigPath returns the configuration file path.
// Uses ROOMCORE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ROOMCORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
