package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentRecord is the positional unit of the whole pipeline. Position is
// 1-based and dense: record N of an aligned list always describes link N of
// the sanitized link list, extraction failures included.
type ContentRecord struct {
	Position    int    `json:"idx"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Text        string `json:"text"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	SourceLabel string `json:"source,omitempty"`
}

// NoteRequirement maps one numbered note of a section to the global link
// positions it must cite, in citation order.
type NoteRequirement struct {
	NoteNumber int   `json:"note_number"`
	Links      []int `json:"links"`
}

type SectionRequirement struct {
	Name      string            `json:"name"`
	Notes     []NoteRequirement `json:"notes"`
	Headlines []int             `json:"headlines"`
}

// Plan is the structured form of one editorial instruction text: which link
// positions feed the opening story, each section's notes and headlines, and
// the agenda block.
type Plan struct {
	Lead     []int                `json:"lead"`
	Sections []SectionRequirement `json:"sections"`
	Agenda   []int                `json:"agenda"`
}

// NewsletterStructure is the UI-built hierarchy that the encoder flattens
// into a link list plus instruction text. Passed by value into Encode; the
// core never reads ambient session state.
type NewsletterStructure struct {
	LeadLinks []string           `json:"lead_links"`
	Sections  []SectionStructure `json:"sections"`
	Agenda    []string           `json:"agenda_links"`
}

type SectionStructure struct {
	Name      string     `json:"name"`
	Notes     [][]string `json:"notes"`
	Headlines []string   `json:"headlines"`
}

type GenerationRequest struct {
	Links        []string `json:"links"`
	Instructions string   `json:"instructions"`
	LeadOverride []int    `json:"lead_override,omitempty"`
	Model        string   `json:"model,omitempty"`
}

type GenerationResult struct {
	Success        bool   `json:"success"`
	Content        string `json:"content,omitempty"`
	DocURL         string `json:"doc_url,omitempty"`
	Error          string `json:"error,omitempty"`
	LinksProcessed int    `json:"links_processed"`
	RunID          string `json:"run_id,omitempty"`
}

// NewsletterRun is the persisted outcome of one generation request. Link and
// content lists live only for the duration of the request; the run keeps the
// instruction text, the derived plan and the final text for history.
type NewsletterRun struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Model        string         `gorm:"column:model;not null" json:"model"`
	Instructions string         `gorm:"column:instructions;type:text" json:"instructions"`
	LinksCount   int            `gorm:"column:links_count;not null;default:0" json:"links_count"`
	Success      bool           `gorm:"column:success;not null;default:false;index" json:"success"`
	Error        string         `gorm:"column:error" json:"error,omitempty"`
	DocURL       string         `gorm:"column:doc_url" json:"doc_url,omitempty"`
	Content      string         `gorm:"column:content;type:text" json:"content,omitempty"`
	PlanJSON     datatypes.JSON `gorm:"column:plan;type:jsonb" json:"plan"`
	DurationMS   int64          `gorm:"column:duration_ms;not null;default:0" json:"duration_ms"`
	CreatedAt    time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (NewsletterRun) TableName() string { return "newsletter_run" }
