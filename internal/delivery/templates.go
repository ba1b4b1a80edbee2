package delivery

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = map[string]any{
	"inc": func(i int) int { return i + 1 },
}

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html.tmpl"))
	textTemplates = texttemplate.Must(texttemplate.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.txt.tmpl"))
)

// emailData feeds both the submitter and the internal templates.
type emailData struct {
	Name            string
	Email           string
	Recommendations []Item
	SentOn          string
}

// Rendered is one email body pair.
type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

const (
	SubjectSubmitter = "Your Personalized Business Tool Recommendations"
	SubjectInternal  = "New User Recommendations Request"
)

// RenderSubmitter renders the email sent to the person who filled in the questionnaire.
func RenderSubmitter(p Payload, now time.Time) (Rendered, error) {
	return render("submitter", SubjectSubmitter, p, now)
}

// RenderInternal renders the copy sent to the internal sales address.
func RenderInternal(p Payload, now time.Time) (Rendered, error) {
	return render("internal", SubjectInternal, p, now)
}

func render(name, subject string, p Payload, now time.Time) (Rendered, error) {
	data := emailData{
		Name:            p.Name,
		Email:           p.Email,
		Recommendations: p.Recommendations,
		SentOn:          FormatSentOn(now),
	}
	var html, text bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html.tmpl", data); err != nil {
		return Rendered{}, fmt.Errorf("render %s html: %w", name, err)
	}
	if err := textTemplates.ExecuteTemplate(&text, name+".txt.tmpl", data); err != nil {
		return Rendered{}, fmt.Errorf("render %s text: %w", name, err)
	}
	return Rendered{Subject: subject, HTML: html.String(), Text: text.String()}, nil
}

// FormatSentOn renders a date as "January 2nd, 2006".
func FormatSentOn(t time.Time) string {
	return fmt.Sprintf("%s %d%s, %d", t.Month(), t.Day(), ordinalSuffix(t.Day()), t.Year())
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
