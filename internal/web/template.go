package web

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/opencontrol/controldeck/internal/status"
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
	"pct": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v*100)
	},
	"cc": func(v float64) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v*127 + 0.5)
	},
}).Parse(indexHTML))

// pageData flattens the snapshot maps into sorted rows for the template.
type pageData struct {
	status.Snapshot
	EncoderRows []encoderRow
	ButtonRows  []buttonRow
}

type encoderRow struct {
	ID    uint8
	Value float64
}

type buttonRow struct {
	ID   uint8
	Held bool
}

func buildPageData(snap status.Snapshot) pageData {
	d := pageData{Snapshot: snap}
	for id, v := range snap.Encoders {
		d.EncoderRows = append(d.EncoderRows, encoderRow{ID: id, Value: v})
	}
	sort.Slice(d.EncoderRows, func(i, j int) bool { return d.EncoderRows[i].ID < d.EncoderRows[j].ID })
	for id, held := range snap.Buttons {
		d.ButtonRows = append(d.ButtonRows, buttonRow{ID: id, Held: held})
	}
	sort.Slice(d.ButtonRows, func(i, j int) bool { return d.ButtonRows[i].ID < d.ButtonRows[j].ID })
	return d
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, buildPageData(snap)); err != nil {
		slog.Warn("web: render failed", "err", err)
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Control Deck</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.held { color: green; font-weight: bold; }
.idle { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
.bar { display: inline-block; height: 10px; background: #4a90d9; vertical-align: middle; }
</style>
</head>
<body>
<h1>Control Deck</h1>

<h2>Encoders</h2>
<table>
{{range .EncoderRows}}<tr><th>Encoder {{.ID}}</th><td><span class="bar" style="width: {{pct .Value}}"></span> {{pct .Value}} (CC {{cc .Value}})</td></tr>
{{end}}</table>

<h2>Buttons</h2>
<table>
{{range .ButtonRows}}<tr><th>Button {{.ID}}</th><td class="{{if .Held}}held{{else}}idle{{end}}">{{if .Held}}HELD{{else}}released{{end}}</td></tr>
{{end}}</table>

<h2>Connectivity</h2>
<table>
<tr><th>MIDI</th><td class="{{if .MIDIConnected}}connected{{else}}disconnected{{end}}">{{if .MIDIConnected}}{{.MIDIPort}}{{else}}disconnected{{end}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Encoder turns</th><td>{{.Counts.EncoderTurns}}</td></tr>
<tr><th>Presses</th><td>{{.Counts.Presses}}</td></tr>
<tr><th>Releases</th><td>{{.Counts.Releases}}</td></tr>
<tr><th>Long presses</th><td>{{.Counts.LongPresses}}</td></tr>
<tr><th>Double taps</th><td>{{.Counts.DoubleTaps}}</td></tr>
</table>

<h2>Daemon</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Poll interval</th><td>{{.Config.PollMs}} ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}} ms</td></tr>
<tr><th>Long press</th><td>{{.Config.LongPressMs}} ms</td></tr>
<tr><th>Double tap</th><td>{{.Config.DoubleTapMs}} ms</td></tr>
<tr><th>MIDI channel</th><td>{{.Config.Channel}}</td></tr>
</table>
</body>
</html>
`
