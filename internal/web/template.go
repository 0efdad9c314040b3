package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/powerled/internal/logic"
	"github.com/sweeney/powerled/internal/status"
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
	"phaseClass": func(p logic.Phase) string {
		switch p {
		case logic.PhaseSteadyOn:
			return "on"
		case logic.PhaseSteadyOff:
			return "off"
		case logic.PhaseRampingUp, logic.PhaseRampingDown:
			return "ramp"
		}
		return "unknown"
	},
	"percent": func(level int) int {
		return level * 100 / logic.MaxBrightness
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Power LED</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.ramp { color: #c80; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.bar { background: #eee; height: 8px; }
.bar div { background: #3a3; height: 8px; }
</style>
</head>
<body>
<h1>Power LED</h1>

<h2>Indicator</h2>
<table>
<tr><th>Phase</th><td class="{{phaseClass .Indicator.Phase}}">{{if .Indicator.Phase}}{{.Indicator.Phase}}{{else}}UNKNOWN{{end}}</td></tr>
<tr><th>Brightness</th><td>{{.Indicator.Brightness}} / {{.Indicator.Target}}<div class="bar"><div style="width: {{percent .Indicator.Brightness}}%"></div></div></td></tr>
<tr><th>Mains</th><td class="{{if .Indicator.ACPresent}}on{{else}}off{{end}}">{{if .Indicator.ACPresent}}present{{else}}absent{{end}}</td></tr>
<tr><th>Muting</th><td>{{if .Indicator.Muting}}yes (next effect in {{.Indicator.MuteTimer}}){{else}}no{{end}}</td></tr>
</table>

<h2>Counts</h2>
<table>
<tr><th>Loop iterations</th><td>{{.Indicator.Counts.Iterations}}</td></tr>
<tr><th>Ramps up</th><td>{{.Indicator.Counts.RampsUp}}</td></tr>
<tr><th>Ramps down</th><td>{{.Indicator.Counts.RampsDown}}</td></tr>
<tr><th>AC lost</th><td>{{.Indicator.Counts.ACLost}}</td></tr>
<tr><th>Muting effects</th><td>{{.Indicator.Counts.MuteEffects}}</td></tr>
<tr><th>GPIO errors</th><td>{{.GPIOErrors}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Driver</th><td>{{.Config.Driver}}</td></tr>
<tr><th>Pins</th><td>AC {{.Config.PinAC}}, mute {{.Config.PinMute}}, LED {{.Config.PinLED}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickUs}}µs</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("http: render index: %v", err)
	}
}
