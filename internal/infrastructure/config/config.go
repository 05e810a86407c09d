package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for roomcore.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Govee     GoveeConfig     `yaml:"govee"`
	Broadlink BroadlinkConfig `yaml:"broadlink"`
	Signals   SignalsConfig   `yaml:"signals"`
	Room      RoomConfig      `yaml:"room"`
	Macro     MacroConfig     `yaml:"macro"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// GoveeConfig contains Govee cloud API settings.
type GoveeConfig struct {
	// APIKey authenticates against the Govee developer API. Usually set
	// via the ROOMCORE_GOVEE_API_KEY environment variable, never committed.
	APIKey string `yaml:"api_key"`
}

// BroadlinkConfig contains the IR/RF emitter connection settings.
type BroadlinkConfig struct {
	Host       string `yaml:"host"`
	MAC        string `yaml:"mac"`
	DeviceType int    `yaml:"device_type"`
	Timeout    int    `yaml:"timeout"`
}

// SignalsConfig contains the learned-signal store settings.
type SignalsConfig struct {
	// Path is the JSON file holding learned signals.
	Path string `yaml:"path"`

	// LearnTimeout bounds one learning session, in seconds.
	LearnTimeout int `yaml:"learn_timeout"`

	// PollInterval is the learning poll cadence, in milliseconds.
	PollInterval int `yaml:"poll_interval"`
}

// RoomConfig describes the devices and the fan-out order.
type RoomConfig struct {
	// Order lists controller IDs in apply order. Every listed ID must
	// match a configured device; power the projector before lowering the
	// screen by listing it first.
	Order []string `yaml:"order"`

	// QueueDepth bounds pending mode requests; extra triggers are dropped.
	QueueDepth int `yaml:"queue_depth"`

	Toggles   []ToggleDeviceConfig  `yaml:"toggles"`
	Groups    []GroupDeviceConfig   `yaml:"groups"`
	Projector ProjectorDeviceConfig `yaml:"projector"`
	Screen    ScreenDeviceConfig    `yaml:"screen"`
	Display   DisplayDeviceConfig   `yaml:"display"`
	Audio     AudioDeviceConfig     `yaml:"audio"`
}

// ToggleDeviceConfig describes one cloud on/off actuator.
type ToggleDeviceConfig struct {
	ID       string `yaml:"id"`
	DeviceID string `yaml:"device_id"`
	Model    string `yaml:"model"`
	Invert   bool   `yaml:"invert"`
}

// GroupDeviceConfig describes a group of cloud actuators applied together.
type GroupDeviceConfig struct {
	ID      string               `yaml:"id"`
	Members []ToggleDeviceConfig `yaml:"members"`
}

// ProjectorDeviceConfig describes the IR projector.
type ProjectorDeviceConfig struct {
	ID          string `yaml:"id"`
	PowerSignal string `yaml:"power_signal"`

	// Settle is the gap between the two power-off pulses, in milliseconds.
	Settle int `yaml:"settle"`
}

// ScreenDeviceConfig describes the RF projection screen.
type ScreenDeviceConfig struct {
	ID         string `yaml:"id"`
	DownSignal string `yaml:"down_signal"`
	StopSignal string `yaml:"stop_signal"`
	UpSignal   string `yaml:"up_signal"`

	// Travel is the full drop duration, in seconds.
	Travel int `yaml:"travel"`
}

// DisplayDeviceConfig describes the monitor profile switcher.
type DisplayDeviceConfig struct {
	ID       string            `yaml:"id"`
	Binary   string            `yaml:"binary"`
	Flag     string            `yaml:"flag"`
	Profiles map[string]string `yaml:"profiles"`
}

// AudioDeviceConfig describes the audio matrix controller.
type AudioDeviceConfig struct {
	ID string `yaml:"id"`

	// DLLPath overrides the VoiceMeeter remote DLL location.
	DLLPath string `yaml:"dll_path"`

	// Buses maps mode name to bus index to mute state.
	Buses map[string]map[int]bool `yaml:"buses"`
}

// MacroConfig contains global hotkey settings.
type MacroConfig struct {
	Enabled  bool                 `yaml:"enabled"`
	Bindings []MacroBindingConfig `yaml:"bindings"`

	// QuitKeys is the combination that shuts the whole service down.
	QuitKeys []string `yaml:"quit_keys"`
}

// MacroBindingConfig maps one key combination to a mode.
type MacroBindingConfig struct {
	Keys []string `yaml:"keys"`
	Mode string   `yaml:"mode"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: ROOMCORE_SECTION_KEY
// For example: ROOMCORE_GOVEE_API_KEY, ROOMCORE_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "roomcore",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8086,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 60,
				Idle:  60,
			},
		},
		Broadlink: BroadlinkConfig{
			DeviceType: 0x520b,
			Timeout:    5,
		},
		Signals: SignalsConfig{
			Path:         "./data/signals.json",
			LearnTimeout: 30,
			PollInterval: 500,
		},
		Room: RoomConfig{
			QueueDepth: 2,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: ROOMCORE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Govee API key is a secret, never committed in YAML.
	if v := os.Getenv("ROOMCORE_GOVEE_API_KEY"); v != "" {
		cfg.Govee.APIKey = v
	}

	// MQTT
	if v := os.Getenv("ROOMCORE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("ROOMCORE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("ROOMCORE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("ROOMCORE_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// InfluxDB
	if v := os.Getenv("ROOMCORE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.Signals.Path == "" {
		errs = append(errs, "signals.path is required")
	}

	if len(c.Room.Order) == 0 {
		errs = append(errs, "room.order must list at least one device")
	}
	if c.Room.QueueDepth < 1 {
		errs = append(errs, "room.queue_depth must be at least 1")
	}
	for _, id := range c.Room.Order {
		if !c.knownDevice(id) {
			errs = append(errs, fmt.Sprintf("room.order lists unknown device %q", id))
		}
	}

	// Cloud toggles are useless without a key.
	if (len(c.Room.Toggles) > 0 || len(c.Room.Groups) > 0) && c.Govee.APIKey == "" {
		errs = append(errs, "govee.api_key is required when cloud devices are configured (set ROOMCORE_GOVEE_API_KEY)")
	}

	// IR/RF devices need an emitter.
	if (c.inOrder(c.Room.Projector.ID) || c.inOrder(c.Room.Screen.ID)) && (c.Broadlink.Host == "" || c.Broadlink.MAC == "") {
		errs = append(errs, "broadlink.host and broadlink.mac are required when the projector or screen is configured")
	}

	if c.Macro.Enabled && len(c.Macro.Bindings) == 0 {
		errs = append(errs, "macro.bindings must list at least one binding when macro is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// knownDevice reports whether id names a configured controller.
func (c *Config) knownDevice(id string) bool {
	for _, t := range c.Room.Toggles {
		if t.ID == id {
			return true
		}
	}
	for _, g := range c.Room.Groups {
		if g.ID == id {
			return true
		}
	}
	switch id {
	case c.Room.Projector.ID, c.Room.Screen.ID, c.Room.Display.ID, c.Room.Audio.ID:
		return id != ""
	}
	return false
}

// inOrder reports whether id is listed in the fan-out order.
func (c *Config) inOrder(id string) bool {
	if id == "" {
		return false
	}
	for _, o := range c.Room.Order {
		if o == id {
			return true
		}
	}
	return false
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetBroadlinkTimeout returns the emitter exchange timeout as a Duration.
func (c *Config) GetBroadlinkTimeout() time.Duration {
	return time.Duration(c.Broadlink.Timeout) * time.Second
}

// GetLearnTimeout returns the signal learning timeout as a Duration.
func (c *Config) GetLearnTimeout() time.Duration {
	return time.Duration(c.Signals.LearnTimeout) * time.Second
}

// GetLearnPollInterval returns the learning poll cadence as a Duration.
func (c *Config) GetLearnPollInterval() time.Duration {
	return time.Duration(c.Signals.PollInterval) * time.Millisecond
}

// GetProjectorSettle returns the power-off pulse gap as a Duration.
// Zero means the controller default.
func (c *Config) GetProjectorSettle() time.Duration {
	return time.Duration(c.Room.Projector.Settle) * time.Millisecond
}

// GetScreenTravel returns the screen drop duration as a Duration.
// Zero means the controller default.
func (c *Config) GetScreenTravel() time.Duration {
	return time.Duration(c.Room.Screen.Travel) * time.Second
}
