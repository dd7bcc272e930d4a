package notify

import (
	"bytes"
	"fmt"
	"text/template"
)

type messageTemplate struct {
	subject *template.Template
	body    *template.Template
}

var predefined = map[Kind]messageTemplate{
	KindInvitation: {
		subject: template.Must(template.New("invitation_subject").Parse(
			`Convite para acessar a plataforma como {{.role}}`)),
		body: template.Must(template.New("invitation_body").Option("missingkey=zero").Parse(
			`Olá {{.name}},

Você foi convidado(a) para a plataforma com o papel {{.role}}.

Para criar sua conta, acesse:
{{.accept_url}}

Este convite expira em {{.expires_at}}.
`)),
	},
}

// Render returns subject and body for msg.
func Render(msg *Message) (string, string, error) {
	tpl, ok := predefined[msg.Kind]
	if !ok {
		return "", "", fmt.Errorf("no template for message kind %q", msg.Kind)
	}
	var subject, body bytes.Buffer
	if err := tpl.subject.Execute(&subject, msg.Params); err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}
	if err := tpl.body.Execute(&body, msg.Params); err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}
	return subject.String(), body.String(), nil
}
