package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Pressed       bool       `json:"pressed"`
	Last          *LastJSON  `json:"last_event,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// LastJSON is the JSON representation of the most recent event.
type LastJSON struct {
	Time   string `json:"time"`
	Type   string `json:"type"`
	Clicks uint32 `json:"clicks"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Popup  int `json:"popup"`
	Single int `json:"single_click"`
	Double int `json:"double_click"`
	More   int `json:"more_click"`
	Long   int `json:"long_click"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	WindowTicks uint32 `json:"window_ticks"`
	LongTicks   uint32 `json:"long_ticks"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Pin         int    `json:"pin"`
	ActiveLow   bool   `json:"active_low"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	ConfPath    string `json:"conf_path,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Pressed:       snap.Pressed,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Popup:  snap.Counts.Popup,
			Single: snap.Counts.Single,
			Double: snap.Counts.Double,
			More:   snap.Counts.More,
			Long:   snap.Counts.Long,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			WindowTicks: snap.Config.WindowTicks,
			LongTicks:   snap.Config.LongTicks,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Pin:         snap.Config.Pin,
			ActiveLow:   snap.Config.ActiveLow,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			ConfPath:    snap.Config.ConfPath,
		},
	}

	if snap.Last != nil {
		inner.Last = &LastJSON{
			Time:   snap.Last.Time.UTC().Format(time.RFC3339),
			Type:   snap.Last.Type,
			Clicks: snap.Last.Clicks,
		}
	}

	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
