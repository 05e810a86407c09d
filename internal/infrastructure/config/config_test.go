package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// minimalConfig is a config that passes validation: one toggle device with
// a key, listed in the fan-out order.
const minimalConfig = `
govee:
  api_key: "test-key"
room:
  order: ["desk-plug"]
  toggles:
    - id: "desk-plug"
      device_id: "AA:BB"
      model: "H5083"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
logging:
  level: "debug"
govee:
  api_key: "test-key"
broadlink:
  host: "192.168.1.50"
  mac: "24:df:a7:00:11:22"
signals:
  path: "/tmp/signals.json"
room:
  order: ["projector", "screen", "desk-plug"]
  toggles:
    - id: "desk-plug"
      device_id: "AA:BB"
      model: "H5083"
      invert: true
  projector:
    id: "projector"
    power_signal: "projector_power"
  screen:
    id: "screen"
    down_signal: "screen_down"
    stop_signal: "screen_stop"
    up_signal: "screen_up"
    travel: 31
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Signals.Path != "/tmp/signals.json" {
		t.Errorf("Signals.Path = %q, want %q", cfg.Signals.Path, "/tmp/signals.json")
	}
	if len(cfg.Room.Order) != 3 || cfg.Room.Order[0] != "projector" {
		t.Errorf("Room.Order = %v", cfg.Room.Order)
	}
	if !cfg.Room.Toggles[0].Invert {
		t.Error("Toggles[0].Invert = false, want true")
	}
	if cfg.Room.Screen.Travel != 31 {
		t.Errorf("Screen.Travel = %d, want 31", cfg.Room.Screen.Travel)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("MQTT.Broker.Port = %d, want default 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.Room.QueueDepth != 2 {
		t.Errorf("Room.QueueDepth = %d, want default 2", cfg.Room.QueueDepth)
	}
	if cfg.Broadlink.DeviceType != 0x520b {
		t.Errorf("Broadlink.DeviceType = %#x, want default 0x520b", cfg.Broadlink.DeviceType)
	}
	if cfg.Signals.LearnTimeout != 30 {
		t.Errorf("Signals.LearnTimeout = %d, want default 30", cfg.Signals.LearnTimeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_GoveeKeyFromEnvironment(t *testing.T) {
	content := `
room:
  order: ["desk-plug"]
  toggles:
    - id: "desk-plug"
      device_id: "AA:BB"
      model: "H5083"
`
	t.Setenv("ROOMCORE_GOVEE_API_KEY", "env-key")

	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Govee.APIKey != "env-key" {
		t.Errorf("Govee.APIKey = %q, want %q", cfg.Govee.APIKey, "env-key")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Govee.APIKey = "test-key"
		cfg.Room.Order = []string{"desk-plug"}
		cfg.Room.Toggles = []ToggleDeviceConfig{{ID: "desk-plug", DeviceID: "AA:BB", Model: "H5083"}}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "invalid api port",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: "api.port",
		},
		{
			name:    "invalid mqtt qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "missing signals path",
			mutate:  func(c *Config) { c.Signals.Path = "" },
			wantErr: "signals.path",
		},
		{
			name:    "empty order",
			mutate:  func(c *Config) { c.Room.Order = nil },
			wantErr: "room.order",
		},
		{
			name:    "unknown device in order",
			mutate:  func(c *Config) { c.Room.Order = []string{"desk-plug", "ghost"} },
			wantErr: `unknown device "ghost"`,
		},
		{
			name:    "cloud devices without key",
			mutate:  func(c *Config) { c.Govee.APIKey = "" },
			wantErr: "govee.api_key",
		},
		{
			name: "projector without emitter",
			mutate: func(c *Config) {
				c.Room.Projector = ProjectorDeviceConfig{ID: "projector", PowerSignal: "p"}
				c.Room.Order = append(c.Room.Order, "projector")
			},
			wantErr: "broadlink.host",
		},
		{
			name:    "macro enabled without bindings",
			mutate:  func(c *Config) { c.Macro.Enabled = true },
			wantErr: "macro.bindings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_DurationHelpers(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.GetLearnTimeout().Seconds(); got != 30 {
		t.Errorf("GetLearnTimeout() = %vs, want 30s", got)
	}
	if got := cfg.GetLearnPollInterval().Milliseconds(); got != 500 {
		t.Errorf("GetLearnPollInterval() = %vms, want 500ms", got)
	}
	if got := cfg.GetBroadlinkTimeout().Seconds(); got != 5 {
		t.Errorf("GetBroadlinkTimeout() = %vs, want 5s", got)
	}
}
