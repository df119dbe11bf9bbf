// Package config loads daemon configuration from an INI file and watches it
// for changes. Command-line flags override file values; see cmd/buttond.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/ini.v1"
)

// DefaultPath is where the daemon looks for its config file.
const DefaultPath = "/etc/buttond.conf"

// File is the parsed configuration file.
type File struct {
	Button ButtonConfig
	MQTT   MQTTConfig
	HTTP   HTTPConfig
}

// ButtonConfig configures the polled button line.
type ButtonConfig struct {
	Pin       int           // BCM line number
	ActiveLow bool          // pressed drives the line low (pull-up wiring)
	Poll      time.Duration // tick cadence
	Window    time.Duration // release duration that closes a click window
	LongPress time.Duration // hold duration that becomes a long click
}

// MQTTConfig configures event publishing.
type MQTTConfig struct {
	Broker    string
	Heartbeat time.Duration // 0 disables heartbeat events
}

// HTTPConfig configures the status server.
type HTTPConfig struct {
	Addr string // empty disables the server
}

// Defaults returns the built-in configuration.
func Defaults() File {
	return File{
		Button: ButtonConfig{
			Pin:       17,
			ActiveLow: true,
			Poll:      20 * time.Millisecond,
			Window:    400 * time.Millisecond,
			LongPress: time.Second,
		},
		MQTT: MQTTConfig{
			Broker:    "tcp://localhost:1883",
			Heartbeat: 15 * time.Minute,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load reads the config file at path. A missing file is not an error; the
// defaults are returned. Malformed individual values fall back to their
// defaults via ini's Must* accessors.
func Load(path string) (File, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	b := f.Section("button")
	cfg.Button.Pin = b.Key("pin").MustInt(cfg.Button.Pin)
	cfg.Button.ActiveLow = b.Key("active_low").MustBool(cfg.Button.ActiveLow)
	cfg.Button.Poll = b.Key("poll").MustDuration(cfg.Button.Poll)
	cfg.Button.Window = b.Key("window").MustDuration(cfg.Button.Window)
	cfg.Button.LongPress = b.Key("long_press").MustDuration(cfg.Button.LongPress)

	m := f.Section("mqtt")
	cfg.MQTT.Broker = m.Key("broker").MustString(cfg.MQTT.Broker)
	cfg.MQTT.Heartbeat = m.Key("heartbeat").MustDuration(cfg.MQTT.Heartbeat)

	h := f.Section("http")
	cfg.HTTP.Addr = h.Key("addr").MustString(cfg.HTTP.Addr)

	return cfg, nil
}
