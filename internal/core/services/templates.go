package services

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

// ResponseTemplate is one canned reply shape. Templates are data: a
// deployment can load its own set, and tests substitute fixtures.
type ResponseTemplate struct {
	// ID identifies the template in DraftResponse.SourceID.
	ID string

	// Category is the ticket category the template applies to.
	Category string

	// Priorities are the priorities the template applies to. Empty
	// means any priority.
	Priorities []domain.Priority

	// Body is a text/template body. Missing data renders as empty
	// strings, never as an error.
	Body string
}

// AppliesTo reports whether the template covers the priority.
func (t ResponseTemplate) AppliesTo(priority domain.Priority) bool {
	if len(t.Priorities) == 0 {
		return true
	}
	for _, p := range t.Priorities {
		if p == priority {
			return true
		}
	}
	return false
}

// templateData is the rendering context for a response template.
type templateData struct {
	CustomerName string
	AgentName    string
	Category     string
	Subject      string
	Matches      []domain.KnowledgeMatch
	Steps        []string
	Signature    string
}

// templateSet holds parsed templates grouped by category.
type templateSet struct {
	byCategory map[string][]ResponseTemplate
	parsed     map[string]*template.Template
}

// newTemplateSet parses all templates up front; a malformed body is a
// configuration error and surfaces immediately.
func newTemplateSet(templates []ResponseTemplate) (*templateSet, error) {
	set := &templateSet{
		byCategory: make(map[string][]ResponseTemplate),
		parsed:     make(map[string]*template.Template),
	}
	for _, t := range templates {
		parsed, err := template.New(t.ID).Option("missingkey=zero").Parse(t.Body)
		if err != nil {
			return nil, fmt.Errorf("parse template %q: %w", t.ID, err)
		}
		set.byCategory[t.Category] = append(set.byCategory[t.Category], t)
		set.parsed[t.ID] = parsed
	}
	return set, nil
}

// match returns the template declared for the category and priority,
// if one exists.
func (s *templateSet) match(category string, priority domain.Priority) (ResponseTemplate, bool) {
	for _, t := range s.byCategory[category] {
		if t.AppliesTo(priority) {
			return t, true
		}
	}
	return ResponseTemplate{}, false
}

// closest returns the best available template: same category at any
// priority, then the general template, then any template at all.
func (s *templateSet) closest(category string) (ResponseTemplate, bool) {
	if ts := s.byCategory[category]; len(ts) > 0 {
		return ts[0], true
	}
	if ts := s.byCategory[GeneralCategory]; len(ts) > 0 {
		return ts[0], true
	}
	for _, ts := range s.byCategory {
		if len(ts) > 0 {
			return ts[0], true
		}
	}
	return ResponseTemplate{}, false
}

// render executes the template. Unset fields render as empty strings.
func (s *templateSet) render(t ResponseTemplate, data templateData) (string, error) {
	parsed, ok := s.parsed[t.ID]
	if !ok {
		return "", fmt.Errorf("template %q not parsed", t.ID)
	}
	var buf strings.Builder
	if err := parsed.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %q: %w", t.ID, err)
	}
	return buf.String(), nil
}

// DefaultTemplates returns the built-in reply templates.
func DefaultTemplates() []ResponseTemplate {
	return []ResponseTemplate{
		{
			ID:       "general-ack",
			Category: GeneralCategory,
			Body: `Hello {{.CustomerName}},

Thank you for reaching out about "{{.Subject}}".
{{if .Matches}}
These articles from our knowledge base may help:
{{range .Matches}}  - {{.Title}}: {{.Summary}}
{{end}}{{end}}{{if .Steps}}
In the meantime, you can try the following:
{{range .Steps}}  - {{.}}
{{end}}{{end}}
We will follow up with you as soon as possible.

{{.Signature}}`,
		},
		{
			ID:       "billing-standard",
			Category: "billing",
			Body: `Hello {{.CustomerName}},

Thank you for contacting us about your billing question regarding "{{.Subject}}".

We understand billing issues are stressful and we are reviewing your
account now.
{{if .Steps}}
While we investigate, these checks often resolve payment problems:
{{range .Steps}}  - {{.}}
{{end}}{{end}}{{if .Matches}}
Related help articles:
{{range .Matches}}  - {{.Title}}: {{.Summary}}
{{end}}{{end}}
If a charge needs to be corrected, we will make it right.

{{.Signature}}`,
		},
		{
			ID:         "technical-standard",
			Category:   "technical",
			Priorities: []domain.Priority{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh},
			Body: `Hello {{.CustomerName}},

Thanks for the report about "{{.Subject}}". Our technical team is
looking into it.
{{if .Steps}}
A few steps that resolve many similar issues:
{{range .Steps}}  - {{.}}
{{end}}{{end}}{{if .Matches}}
These articles cover related problems:
{{range .Matches}}  - {{.Title}}: {{.Summary}}
{{end}}{{end}}
If none of that helps, reply with any error message you see and we
will dig deeper.

{{.Signature}}`,
		},
		{
			ID:       "account-standard",
			Category: "account",
			Body: `Hello {{.CustomerName}},

Thank you for contacting us about your account.
{{if .Steps}}
The fastest way to regain access is usually:
{{range .Steps}}  - {{.}}
{{end}}{{end}}{{if .Matches}}
Related guides:
{{range .Matches}}  - {{.Title}}: {{.Summary}}
{{end}}{{end}}
For your security we may need to verify your identity before making
account changes.

{{.Signature}}`,
		},
	}
}

// fallbackContent is the canned acknowledgment used when every other
// strategy fails.
const fallbackContent = `Hello,

Thank you for contacting support. Your request has been received and a
member of our team will review it shortly.

Support Team`
