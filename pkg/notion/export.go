package notion

import (
	"context"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// Lead holds the fields exported to the Notion lead database. The
// Profile URL property is the identity key for upserts.
type Lead struct {
	Name             string
	Position         string
	Headline         string
	Location         string
	ProfileURL       string
	PopularityScore  float64
	Summary          string
	ConnectionNote   string
	ConnectSent      bool
	ConnectionStatus string
	DateAdded        time.Time
}

// UpsertLead creates or updates the page keyed by the lead's profile URL.
// It reports whether a new page was created.
func UpsertLead(ctx context.Context, c Client, dbID string, lead Lead) (bool, error) {
	pageID, err := findPageByURL(ctx, c, dbID, lead.ProfileURL)
	if err != nil {
		return false, err
	}

	props := leadProperties(lead)
	if pageID == "" {
		_, err := c.CreatePage(ctx, &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(dbID),
			},
			Properties: props,
		})
		if err != nil {
			return false, eris.Wrap(err, "notion: create lead")
		}
		return true, nil
	}

	// Existing pages keep their original Date Added.
	delete(props, "Date Added")
	if _, err := c.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{Properties: props}); err != nil {
		return false, eris.Wrap(err, "notion: update lead")
	}
	return false, nil
}

// findPageByURL returns the page ID whose Profile URL property equals url,
// or "" when no page matches.
func findPageByURL(ctx context.Context, c Client, dbID, url string) (string, error) {
	resp, err := c.QueryDatabase(ctx, dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: "Profile URL",
			RichText: &notionapi.TextFilterCondition{Equals: url},
		},
		PageSize: 1,
	})
	if err != nil {
		return "", eris.Wrap(err, "notion: find lead")
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return string(resp.Results[0].ID), nil
}

func leadProperties(lead Lead) notionapi.Properties {
	props := notionapi.Properties{
		"Name":             notionapi.TitleProperty{Title: richText(lead.Name)},
		"Position":         notionapi.RichTextProperty{RichText: richText(lead.Position)},
		"Headline":         notionapi.RichTextProperty{RichText: richText(lead.Headline)},
		"Location":         notionapi.RichTextProperty{RichText: richText(lead.Location)},
		"Profile URL":      notionapi.URLProperty{URL: lead.ProfileURL},
		"Popularity Score": notionapi.NumberProperty{Number: lead.PopularityScore},
		"Summary":          notionapi.RichTextProperty{RichText: richText(lead.Summary)},
		"Connection Note":  notionapi.RichTextProperty{RichText: richText(lead.ConnectionNote)},
		"Connect Sent":     notionapi.CheckboxProperty{Checkbox: lead.ConnectSent},
	}
	if lead.ConnectionStatus != "" {
		props["Connection Status"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: lead.ConnectionStatus},
		}
	}
	if !lead.DateAdded.IsZero() {
		added := notionapi.Date(lead.DateAdded)
		props["Date Added"] = notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &added},
		}
	}
	return props
}

// richText truncates to Notion's 2000 character rich text limit.
func richText(s string) []notionapi.RichText {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	if len(runes) > 2000 {
		s = string(runes[:2000])
	}
	return []notionapi.RichText{{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: s},
	}}
}
