package main

import (
	"encoding/json"
	"fmt"

	"github.com/sawa9885/roomcore/internal/broadlink"
	"github.com/sawa9885/roomcore/internal/device"
	"github.com/sawa9885/roomcore/internal/govee"
	"github.com/sawa9885/roomcore/internal/infrastructure/config"
	"github.com/sawa9885/roomcore/internal/infrastructure/logging"
	"github.com/sawa9885/roomcore/internal/process"
	"github.com/sawa9885/roomcore/internal/room"
	sig "github.com/sawa9885/roomcore/internal/signal"
	"github.com/sawa9885/roomcore/internal/voicemeeter"
)

// registerControllers builds every configured device controller and
// registers it with the orchestrator in the order cfg.Room.Order lists.
// Order is behaviour, not cosmetics: the projector should power up before
// the screen starts its half-minute drop.
func registerControllers(orch *room.Orchestrator, cfg *config.Config, signals *sig.Store, emitter *broadlink.Device, log *logging.Logger) error {
	var cloud *govee.Client
	if cfg.Govee.APIKey != "" {
		var err error
		cloud, err = govee.NewClient(cfg.Govee.APIKey)
		if err != nil {
			return fmt.Errorf("creating govee client: %w", err)
		}
	}

	for _, id := range cfg.Room.Order {
		if err := registerOne(orch, cfg, id, signals, emitter, cloud, log); err != nil {
			return fmt.Errorf("device %q: %w", id, err)
		}
	}
	return nil
}

func registerOne(orch *room.Orchestrator, cfg *config.Config, id string, signals *sig.Store, emitter *broadlink.Device, cloud *govee.Client, log *logging.Logger) error {
	for _, t := range cfg.Room.Toggles {
		if t.ID != id {
			continue
		}
		return orch.Register(device.NewToggle(device.ToggleConfig{
			ID:       t.ID,
			DeviceID: t.DeviceID,
			Model:    t.Model,
			Invert:   t.Invert,
		}, cloud))
	}

	for _, g := range cfg.Room.Groups {
		if g.ID != id {
			continue
		}
		members := make([]device.ToggleConfig, 0, len(g.Members))
		for _, m := range g.Members {
			members = append(members, device.ToggleConfig{
				ID:       m.ID,
				DeviceID: m.DeviceID,
				Model:    m.Model,
				Invert:   m.Invert,
			})
		}
		return orch.RegisterGroup(device.NewToggleGroup(g.ID, members, cloud))
	}

	switch id {
	case cfg.Room.Projector.ID:
		if emitter == nil {
			return fmt.Errorf("projector needs an emitter")
		}
		return orch.Register(device.NewProjector(device.ProjectorConfig{
			ID:          cfg.Room.Projector.ID,
			PowerSignal: cfg.Room.Projector.PowerSignal,
			Settle:      cfg.GetProjectorSettle(),
		}, signals, emitter, nil))

	case cfg.Room.Screen.ID:
		if emitter == nil {
			return fmt.Errorf("screen needs an emitter")
		}
		return orch.Register(device.NewScreen(device.ScreenConfig{
			ID:         cfg.Room.Screen.ID,
			DownSignal: cfg.Room.Screen.DownSignal,
			StopSignal: cfg.Room.Screen.StopSignal,
			UpSignal:   cfg.Room.Screen.UpSignal,
			Travel:     cfg.GetScreenTravel(),
		}, signals, emitter, nil))

	case cfg.Room.Display.ID:
		profiles := make(map[room.Mode]string, len(cfg.Room.Display.Profiles))
		for name, profile := range cfg.Room.Display.Profiles {
			mode, err := room.ParseMode(name)
			if err != nil {
				return err
			}
			profiles[mode] = profile
		}
		runner := process.NewRunner(0)
		runner.SetLogger(log.With("component", "display"))
		return orch.Register(device.NewDisplay(device.DisplayConfig{
			ID:       cfg.Room.Display.ID,
			Binary:   cfg.Room.Display.Binary,
			Flag:     cfg.Room.Display.Flag,
			Profiles: profiles,
		}, runner))

	case cfg.Room.Audio.ID:
		buses := make(map[room.Mode]map[int]bool, len(cfg.Room.Audio.Buses))
		for name, table := range cfg.Room.Audio.Buses {
			mode, err := room.ParseMode(name)
			if err != nil {
				return err
			}
			buses[mode] = table
		}
		engine := voicemeeter.NewEngine(cfg.Room.Audio.DLLPath)
		if err := engine.Login(); err != nil {
			// Register anyway: a dead audio engine produces error
			// outcomes, it must not stop the lights from switching.
			log.Warn("audio engine unavailable", "error", err)
		}
		return orch.Register(device.NewAudioMatrix(device.AudioConfig{
			ID:    cfg.Room.Audio.ID,
			Buses: buses,
		}, engine))
	}

	return fmt.Errorf("not configured")
}

// outcomeJSON encodes a room outcome for the retained state topic.
func outcomeJSON(outcome room.RoomOutcome) ([]byte, error) {
	return json.Marshal(outcome)
}
