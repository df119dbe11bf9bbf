package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/swilson/buttond/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"rfc3339": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>buttond</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.pressed { color: green; font-weight: bold; }
.released { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>buttond</h1>

<table>
<tr><th>Button</th><td>{{if .Pressed}}<span class="pressed">PRESSED</span>{{else}}<span class="released">RELEASED</span>{{end}}</td></tr>
{{with .Last}}
<tr><th>Last event</th><td>{{.Type}} (clicks={{.Clicks}}) at {{rfc3339 .Time}}</td></tr>
{{else}}
<tr><th>Last event</th><td>&mdash;</td></tr>
{{end}}
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{rfc3339 .StartTime}}</td></tr>
<tr><th>MQTT</th><td>{{if .MQTTConnected}}<span class="connected">connected</span>{{else}}<span class="disconnected">disconnected</span>{{end}} ({{.Config.Broker}})</td></tr>
</table>

<h1>Event counts</h1>
<table>
<tr><th>Popup</th><td>{{.Counts.Popup}}</td></tr>
<tr><th>Single click</th><td>{{.Counts.Single}}</td></tr>
<tr><th>Double click</th><td>{{.Counts.Double}}</td></tr>
<tr><th>Multi click</th><td>{{.Counts.More}}</td></tr>
<tr><th>Long click</th><td>{{.Counts.Long}}</td></tr>
</table>

<h1>Config</h1>
<table>
<tr><th>Pin</th><td>{{.Config.Pin}}{{if .Config.ActiveLow}} (active low){{end}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Click window</th><td>{{.Config.WindowTicks}} ticks</td></tr>
<tr><th>Long press</th><td>{{.Config.LongTicks}} ticks</td></tr>
<tr><th>Heartbeat</th><td>{{.Config.HeartbeatMs}}ms</td></tr>
{{if .Config.ConfPath}}<tr><th>Config file</th><td>{{.Config.ConfPath}}</td></tr>{{end}}
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot.Uptime is a niladic method, callable from the template.
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Printf("web: render: %v", err)
	}
}
