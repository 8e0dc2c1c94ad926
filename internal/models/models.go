package models

import (
	"encoding/json"
	"time"
)

// Source tells the parser which search mode produced a listing page.
type Source string

const (
	SourcePublic        Source = "public_api"
	SourceAuthenticated Source = "authenticated"
)

// SearchSession is one user-initiated search and its resulting batch of jobs.
// The ID is an 8-char identifier; saving the same ID twice is a no-op.
type SearchSession struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Keywords   string    `json:"keywords"`
	Location   string    `json:"location"`
	MaxResults int       `json:"max_results"`
	UseAuth    bool      `json:"use_auth"`
	SearchedAt time.Time `json:"searched_at"`
	TotalJobs  int       `json:"total_jobs"`
}

// Job is the persisted row for one scraped listing.
type Job struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SessionID string `gorm:"index" json:"session_id"`

	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	URL         string    `json:"url"`
	PostDate    string    `json:"post_date"`
	ScrapedAt   time.Time `json:"scraped_at"`
	Source      string    `json:"source"`
	Description string    `gorm:"type:text" json:"description"`
	Industry    string    `json:"industry"`

	Skills []JobSkill `gorm:"foreignKey:JobID" json:"skills,omitempty"`
}

// JobSkill links one extracted skill to a persisted job row.
type JobSkill struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	JobID uint   `gorm:"index" json:"job_id"`
	Skill string `gorm:"index" json:"skill"`
}

// JobSummary is the in-memory record emitted by the listing parser. It lives
// only for the duration of one search request; whatever should outlive the
// request goes through the persistence gateway.
type JobSummary struct {
	Title     string     `json:"title"`
	Company   string     `json:"company"`
	Location  string     `json:"location"`
	URL       string     `json:"url"`
	PostDate  string     `json:"post_date"`
	ScrapedAt time.Time  `json:"scraped_at"`
	Source    Source     `json:"source"`
	Details   *JobDetail `json:"details,omitempty"`
}

// DetailStatus tags the outcome of a detail fetch so callers branch on the
// variant instead of sniffing sentinel strings.
type DetailStatus int

const (
	DetailFetched DetailStatus = iota
	DetailSkipped              // no URL, fetch never attempted
	DetailTimeout
	DetailFailed
)

// JobDetail is the enrichment attached to at most one JobSummary.
type JobDetail struct {
	Status   DetailStatus
	Message  string // failure detail for DetailFailed
	Text     string // extracted description, only set when fetched
	Skills   []string
	Industry string
}

// Description renders the stored/exported description, including the legacy
// sentinel strings for timed-out and failed fetches.
func (d *JobDetail) Description() string {
	switch d.Status {
	case DetailTimeout:
		return "Timeout fetching details"
	case DetailFailed:
		return "Error: " + d.Message
	default:
		return d.Text
	}
}

// Enriched reports whether this detail counts toward the enriched total:
// any attached description that is neither empty nor the timeout sentinel,
// failed fetches included.
func (d *JobDetail) Enriched() bool {
	return d.Status != DetailTimeout && d.Description() != ""
}

func (d JobDetail) MarshalJSON() ([]byte, error) {
	skills := d.Skills
	if skills == nil {
		skills = []string{}
	}
	return json.Marshal(struct {
		Description string   `json:"description"`
		Skills      []string `json:"skills"`
		Industry    string   `json:"industry"`
	}{d.Description(), skills, d.Industry})
}

// FrequencyEntry is one label/count pair of a frequency report. It marshals
// as a [label, count] tuple.
type FrequencyEntry struct {
	Label string
	Count int
}

func (e FrequencyEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Label, e.Count})
}
