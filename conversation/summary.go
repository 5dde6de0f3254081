package conversation

import (
	"fmt"
	"strings"

	"github.com/torontoai/parley/core"
	"github.com/torontoai/parley/internal/util"
)

// summaryTemplates maps well-known message types to display templates.
// Rendering sees .Type (humanized) and .Subject. Unknown types fall through
// to fallbackSummaryTemplate. Presentation only, never parsed back.
var summaryTemplates = map[string]string{
	"request":           "Requested information about {{.Subject}}",
	"response":          "Provided information about {{.Subject}}",
	"proposal":          "Proposed terms for {{.Subject}}",
	"counter_proposal":  "Countered the proposal on {{.Subject}}",
	"accept":            "Accepted the proposal on {{.Subject}}",
	"reject":            "Rejected the proposal on {{.Subject}}",
	"assignment":        "Assigned a task for {{.Subject}}",
	"status_update":     "Reported progress on {{.Subject}}",
	"completion_report": "Reported completion of {{.Subject}}",
	"error_report":      "Reported an error in {{.Subject}}",
}

const fallbackSummaryTemplate = "{{title .Type}} message about {{.Subject}}"

// summarize produces the one-line content summary stored in history records.
func summarize(content core.Content) string {
	subject := content.Subject()
	if subject == "" {
		subject = "unknown topic"
	}
	msgType := content.Type()

	tmpl, ok := summaryTemplates[msgType]
	if !ok {
		tmpl = fallbackSummaryTemplate
	}
	out, err := util.RenderTemplate(tmpl, map[string]any{
		"Type":    strings.ReplaceAll(msgType, "_", " "),
		"Subject": subject,
	})
	if err != nil {
		return fmt.Sprintf("%s message about %s", msgType, subject)
	}
	return out
}
