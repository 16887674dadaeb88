package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// linkedInURLField is the custom Lead field holding the profile URL. It is
// the identity key for sync, so the org must define it as an external ID.
const linkedInURLField = "LinkedIn_URL__c"

// Lead holds the fields synced to the Salesforce Lead object.
type Lead struct {
	Name             string
	Position         string
	Headline         string
	Location         string
	ProfileURL       string
	PopularityScore  float64
	Summary          string
	ConnectionStatus string
}

// SyncResult counts the outcomes of one batch sync.
type SyncResult struct {
	Created int
	Updated int
	Failed  int
}

type leadURLRecord struct {
	ID  string `json:"Id"`
	URL string `json:"LinkedIn_URL__c"`
}

// SyncLeads pushes a batch of leads to Salesforce, keyed by profile URL.
// Records that already exist are updated in place; the rest are created in a
// single collection insert. A lead without a profile URL counts as failed.
// The returned error covers only whole-batch failures; per-record failures
// are reported in the SyncResult.
func SyncLeads(ctx context.Context, c Client, leads []Lead) (SyncResult, error) {
	var res SyncResult

	valid := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if l.ProfileURL == "" {
			res.Failed++
			continue
		}
		valid = append(valid, l)
	}
	if len(valid) == 0 {
		return res, nil
	}

	existing, err := existingIDsByURL(ctx, c, valid)
	if err != nil {
		return res, err
	}

	var toInsert []map[string]any
	for _, l := range valid {
		if id, ok := existing[l.ProfileURL]; ok {
			if err := c.UpdateOne(ctx, "Lead", id, leadFields(l)); err != nil {
				res.Failed++
				continue
			}
			res.Updated++
			continue
		}
		toInsert = append(toInsert, leadFields(l))
	}
	if len(toInsert) == 0 {
		return res, nil
	}

	results, err := c.InsertCollection(ctx, "Lead", toInsert)
	if err != nil {
		res.Failed += len(toInsert)
		return res, eris.Wrap(err, "sf: insert leads")
	}
	for _, r := range results {
		if r.Success {
			res.Created++
		} else {
			res.Failed++
		}
	}
	return res, nil
}

// existingIDsByURL maps profile URLs to Lead IDs for every lead already in
// the org. Lookups are chunked to keep the SOQL IN clause bounded.
func existingIDsByURL(ctx context.Context, c Client, leads []Lead) (map[string]string, error) {
	ids := make(map[string]string, len(leads))
	for start := 0; start < len(leads); start += maxBatchSize {
		end := min(start+maxBatchSize, len(leads))
		quoted := make([]string, 0, end-start)
		for _, l := range leads[start:end] {
			quoted = append(quoted, "'"+soqlEscape(l.ProfileURL)+"'")
		}
		soql := fmt.Sprintf("SELECT Id, %s FROM Lead WHERE %s IN (%s)",
			linkedInURLField, linkedInURLField, strings.Join(quoted, ","))

		var records []leadURLRecord
		if err := c.Query(ctx, soql, &records); err != nil {
			return nil, eris.Wrap(err, "sf: find leads")
		}
		for _, r := range records {
			ids[r.URL] = r.ID
		}
	}
	return ids, nil
}

func leadFields(lead Lead) map[string]any {
	first, last := splitName(lead.Name)
	fields := map[string]any{
		"LastName":       last,
		"Company":        "Unknown",
		"Title":          lead.Position,
		"Description":    lead.Summary,
		"LeadSource":     "LinkedIn Outreach",
		linkedInURLField: lead.ProfileURL,
	}
	if first != "" {
		fields["FirstName"] = first
	}
	if lead.Location != "" {
		fields["City"] = lead.Location
	}
	if lead.ConnectionStatus != "" {
		fields["Status"] = leadStatus(lead.ConnectionStatus)
	}
	return fields
}

// splitName divides a display name into first and last. Salesforce requires
// LastName, so a single-token name becomes the last name.
func splitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "Unknown"
	}
	idx := strings.LastIndexByte(name, ' ')
	if idx < 0 {
		return "", name
	}
	return strings.TrimSpace(name[:idx]), strings.TrimSpace(name[idx+1:])
}

func leadStatus(connectionStatus string) string {
	switch connectionStatus {
	case "sent", "already_connected":
		return "Working - Contacted"
	default:
		return "Open - Not Contacted"
	}
}

// soqlEscape escapes single quotes and backslashes for SOQL string literals.
func soqlEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
