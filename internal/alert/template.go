package alert

import (
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// templateData is the payload available to the email templates.
type templateData struct {
	Name   string
	URL    string
	Status string
	Time   string
}

var textTmpl = texttemplate.Must(texttemplate.New("text").Parse(
	`Monitor: {{.Name}}
URL: {{.URL}}
Status: {{.Status}}
Time: {{.Time}}

This is an automated notification from your uptime monitoring service.
`))

var htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(
	`<html>
  <body style="font-family: sans-serif;">
    <h2>{{.Name}} is {{.Status}}</h2>
    <table>
      <tr><td><strong>Monitor</strong></td><td>{{.Name}}</td></tr>
      <tr><td><strong>URL</strong></td><td>{{.URL}}</td></tr>
      <tr><td><strong>Status</strong></td><td>{{.Status}}</td></tr>
      <tr><td><strong>Time</strong></td><td>{{.Time}}</td></tr>
    </table>
    <p>This is an automated notification from your uptime monitoring service.</p>
  </body>
</html>
`))

// renderEmail produces the subject and both bodies for an alert.
func renderEmail(kind types.AlertKind, m *types.Monitor, at time.Time) (subject, textBody, htmlBody string, err error) {
	var statusWord string
	switch kind {
	case types.AlertDown:
		subject = fmt.Sprintf("ALERT: %s is DOWN", m.Name)
		statusWord = "DOWN"
	case types.AlertRecovery:
		subject = fmt.Sprintf("RECOVERY: %s is back UP", m.Name)
		statusWord = "UP"
	default:
		return "", "", "", fmt.Errorf("unknown alert kind: %s", kind)
	}

	data := templateData{
		Name:   m.Name,
		URL:    m.RepresentativeURL(),
		Status: statusWord,
		Time:   at.UTC().Format("2006-01-02 15:04:05 UTC"),
	}

	var text, html strings.Builder
	if err := textTmpl.Execute(&text, data); err != nil {
		return "", "", "", fmt.Errorf("rendering text body: %w", err)
	}
	if err := htmlTmpl.Execute(&html, data); err != nil {
		return "", "", "", fmt.Errorf("rendering html body: %w", err)
	}

	return subject, text.String(), html.String(), nil
}
