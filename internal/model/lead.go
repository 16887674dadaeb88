package model

import (
	"strconv"
	"strings"
	"time"
)

// LeadColumns is the fixed tabular schema for persisted leads. Column order
// is a contract: backends write this exact header and address cells by these
// positions. ColProfileURL is the upsert key.
var LeadColumns = []string{
	"Name",
	"Position",
	"Headline",
	"Location",
	"Profile URL",
	"Popularity Score",
	"Summary",
	"Connection Note",
	"Connect Sent",
	"Connection Status",
	"Date Added",
	"Last Updated",
	"About",
	"Experience",
	"Education",
	"Skills",
}

// Column indexes into LeadColumns.
const (
	ColName = iota
	ColPosition
	ColHeadline
	ColLocation
	ColProfileURL
	ColPopularityScore
	ColSummary
	ColConnectionNote
	ColConnectSent
	ColConnectionStatus
	ColDateAdded
	ColLastUpdated
	ColAbout
	ColExperience
	ColEducation
	ColSkills
)

const (
	listSeparator = " | "
	dateLayout    = time.RFC3339
)

// UpsertResult reports whether an upsert created a new row or updated an
// existing one.
type UpsertResult string

const (
	UpsertCreated UpsertResult = "created"
	UpsertUpdated UpsertResult = "updated"
)

// LeadRecord is the persisted entity for one contact, keyed by URL. Repeated
// sightings of the same URL mutate the same record.
type LeadRecord struct {
	Profile

	PopularityScore  float64   `json:"popularity_score"`
	Summary          string    `json:"summary,omitempty"`
	ConnectionNote   string    `json:"connection_note,omitempty"`
	ConnectSent      bool      `json:"connect_sent"`
	ConnectionStatus string    `json:"connection_status,omitempty"`
	DateAdded        time.Time `json:"date_added"`
	LastUpdated      time.Time `json:"last_updated"`
}

// Row serializes the record into the fixed column order. Absent optional
// fields become empty cells; list fields are joined.
func (r *LeadRecord) Row() []string {
	row := make([]string, len(LeadColumns))
	row[ColName] = Deref(r.Name)
	row[ColPosition] = Deref(r.Position)
	row[ColHeadline] = Deref(r.Headline)
	row[ColLocation] = Deref(r.Location)
	row[ColProfileURL] = r.URL
	row[ColPopularityScore] = strconv.FormatFloat(r.PopularityScore, 'f', 2, 64)
	row[ColSummary] = r.Summary
	row[ColConnectionNote] = r.ConnectionNote
	row[ColConnectSent] = formatBool(r.ConnectSent)
	row[ColConnectionStatus] = r.ConnectionStatus
	if !r.DateAdded.IsZero() {
		row[ColDateAdded] = r.DateAdded.UTC().Format(dateLayout)
	}
	if !r.LastUpdated.IsZero() {
		row[ColLastUpdated] = r.LastUpdated.UTC().Format(dateLayout)
	}
	row[ColAbout] = Deref(r.About)
	row[ColExperience] = strings.Join(r.Experiences, listSeparator)
	row[ColEducation] = strings.Join(r.Education, listSeparator)
	row[ColSkills] = strings.Join(r.Skills, listSeparator)
	return row
}

// LeadFromRow rebuilds a record from a stored row. Short rows are tolerated:
// missing trailing cells read as absent.
func LeadFromRow(row []string) *LeadRecord {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	rec := &LeadRecord{
		Profile: Profile{
			URL:      NormalizeProfileURL(cell(ColProfileURL)),
			Name:     StringPtr(cell(ColName)),
			Position: StringPtr(cell(ColPosition)),
			Headline: StringPtr(cell(ColHeadline)),
			Location: StringPtr(cell(ColLocation)),
			About:    StringPtr(cell(ColAbout)),
		},
		Summary:          cell(ColSummary),
		ConnectionNote:   cell(ColConnectionNote),
		ConnectSent:      cell(ColConnectSent) == "yes",
		ConnectionStatus: cell(ColConnectionStatus),
	}

	if v, err := strconv.ParseFloat(cell(ColPopularityScore), 64); err == nil {
		rec.PopularityScore = v
	}
	if t, err := time.Parse(dateLayout, cell(ColDateAdded)); err == nil {
		rec.DateAdded = t
	}
	if t, err := time.Parse(dateLayout, cell(ColLastUpdated)); err == nil {
		rec.LastUpdated = t
	}
	rec.Experiences = splitList(cell(ColExperience))
	rec.Education = splitList(cell(ColEducation))
	rec.Skills = splitList(cell(ColSkills))

	return rec
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
