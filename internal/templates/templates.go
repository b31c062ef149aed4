// Package templates carries the default feedback email templates compiled
// into the binary. Database overrides (internal/repositories.TemplateRepository)
// take precedence over these.
package templates

import (
	_ "embed"
	"strings"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
)

// Placeholder is replaced with the client name when a template is rendered.
// It is the wire format of stored custom templates, so it must not change.
const Placeholder = "[NOME]"

//go:embed feedback_pt.html
var feedbackPT string

//go:embed feedback_en.html
var feedbackEN string

//go:embed feedback_fr.html
var feedbackFR string

//go:embed feedback_de.html
var feedbackDE string

var defaults = map[string]string{
	models.NationalityPortuguese: feedbackPT,
	models.NationalityEnglish:    feedbackEN,
	models.NationalityFrench:     feedbackFR,
	models.NationalityGerman:     feedbackDE,
}

var subjects = map[string]string{
	models.NationalityPortuguese: "Obrigado pela sua experiência de mergulho!",
	models.NationalityEnglish:    "Thank you for your diving experience!",
	models.NationalityFrench:     "Merci d'avoir plongé avec nous",
	models.NationalityGerman:     "Danke für Ihr Taucherlebnis",
}

// Nationalities lists every nationality a default template exists for.
func Nationalities() []string {
	return []string{
		models.NationalityPortuguese,
		models.NationalityEnglish,
		models.NationalityFrench,
		models.NationalityGerman,
	}
}

// Default returns the embedded template for a nationality, falling back to
// Portuguese for anything unknown.
func Default(nationality string) string {
	if tpl, ok := defaults[nationality]; ok {
		return tpl
	}
	return feedbackPT
}

// Subject returns the per-nationality subject line, Portuguese by default.
func Subject(nationality string) string {
	if subject, ok := subjects[nationality]; ok {
		return subject
	}
	return subjects[models.NationalityPortuguese]
}

// Render substitutes the name placeholder into a template body.
func Render(content, name string) string {
	return strings.ReplaceAll(content, Placeholder, name)
}
