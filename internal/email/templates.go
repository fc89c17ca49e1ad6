package email

import (
	"bytes"
	"html/template"
	"time"
)

type inviteData struct {
	Name      string
	Code      string
	ExpiresAt string
	PortalURL string
}

var inviteTemplate = template.Must(template.New("invite").Parse(`
<html>
<body style="font-family: sans-serif;">
  <p>Hello {{.Name}},</p>
  <p>You have been invited to take an assessment. Your personal invite code:</p>
  <p style="font-size: 24px; letter-spacing: 4px; font-weight: bold;">{{.Code}}</p>
  {{if .PortalURL}}<p>Enter it at <a href="{{.PortalURL}}">{{.PortalURL}}</a>.</p>{{end}}
  <p>The code is valid until {{.ExpiresAt}}.</p>
</body>
</html>
`))

func renderInvite(name, code string, expiresAt time.Time, portalURL string) (string, error) {
	var buf bytes.Buffer
	err := inviteTemplate.Execute(&buf, inviteData{
		Name:      name,
		Code:      code,
		ExpiresAt: expiresAt.Format("2 January 2006 15:04 MST"),
		PortalURL: portalURL,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
