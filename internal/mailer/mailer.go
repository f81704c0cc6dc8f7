package mailer

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"text/template"
)

const (
	FromName              = "Habitat"
	maxRetires            = 3
	VenueApprovedTemplate = "venue_approved.tmpl"
	VenueRejectedTemplate = "venue_rejected.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) error
}

// VenueDecision is the data passed to the venue templates.
type VenueDecision struct {
	Username  string
	VenueName string
}

type message struct {
	Subject   string
	PlainBody string
	HTMLBody  string
}

func render(templateFile string, data any) (*message, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return nil, err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return nil, err
	}

	plain := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(plain, "plainBody", data); err != nil {
		return nil, err
	}

	htmlTmpl, err := htmltemplate.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return nil, err
	}

	html := new(bytes.Buffer)
	if err := htmlTmpl.ExecuteTemplate(html, "htmlBody", data); err != nil {
		return nil, err
	}

	return &message{
		Subject:   subject.String(),
		PlainBody: plain.String(),
		HTMLBody:  html.String(),
	}, nil
}
