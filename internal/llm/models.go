package llm

import "strings"

// ModelChoices is the catalog offered to editors, in "Provider: model"
// form.
var ModelChoices = []string{
	"Gemini: gemini-2.5-pro",
	"Gemini: gemini-2.5-flash",
	"Gemini: gemini-2.5-flash-lite",
	"OpenAI: gpt-4o-mini",
	"OpenAI: gpt-5",
}

// ContextLimits bounds how much source text one model can take per block.
type ContextLimits struct {
	LeadClip int `json:"lead_clip"`
	NoteClip int `json:"note_clip"`
	MaxNotes int `json:"max_notes"`
}

var contextLimits = map[string]ContextLimits{
	"gemini-2.5-pro":        {LeadClip: 25000, NoteClip: 3000, MaxNotes: 45},
	"gemini-2.5-flash":      {LeadClip: 20000, NoteClip: 2500, MaxNotes: 45},
	"gemini-2.5-flash-lite": {LeadClip: 20000, NoteClip: 2200, MaxNotes: 45},
	"gpt-4o-mini":           {LeadClip: 12000, NoteClip: 1800, MaxNotes: 28},
	"gpt-5":                 {LeadClip: 10000, NoteClip: 1500, MaxNotes: 25},
}

// ContextLimitsFor resolves the limits for a model choice, accepting both
// the bare model name and the "Provider: model" form. Unknown models get the
// most conservative limits.
func ContextLimitsFor(choice string) ContextLimits {
	clean := choice
	if _, after, ok := strings.Cut(choice, ":"); ok {
		clean = after
	}
	clean = strings.TrimSpace(clean)
	if limits, ok := contextLimits[clean]; ok {
		return limits
	}
	return contextLimits["gpt-4o-mini"]
}
