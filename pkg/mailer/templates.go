package mailer

import (
	"bytes"
	"fmt"
	htmltpl "html/template"
)

const welcomeHTML = `<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>Welcome to {{.AppName}}, {{.Name}}!</h2>
  <p>Your account <strong>@{{.Username}}</strong> is ready. Sign in and publish your first post.</p>
  <p style="color:#888; font-size:12px;">If you did not create this account, you can ignore this email.</p>
</body>
</html>`

var templates = map[string]*htmltpl.Template{
	"welcome": htmltpl.Must(htmltpl.New("welcome").Parse(welcomeHTML)),
}

var subjects = map[string]string{
	"welcome": "Welcome to bloghub",
}

// Render produces subject and HTML body for a named template.
func Render(name string, data map[string]any) (subject, html string, err error) {
	t, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return subjects[name], buf.String(), nil
}
