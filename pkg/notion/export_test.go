package notion

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	existingPageID string
	queryErr       error

	queried  *notionapi.DatabaseQueryRequest
	created  *notionapi.PageCreateRequest
	updated  *notionapi.PageUpdateRequest
	updateID string
}

func (c *fakeClient) QueryDatabase(_ context.Context, _ string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	c.queried = req
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	resp := &notionapi.DatabaseQueryResponse{}
	if c.existingPageID != "" {
		resp.Results = []notionapi.Page{{ID: notionapi.ObjectID(c.existingPageID)}}
	}
	return resp, nil
}

func (c *fakeClient) CreatePage(_ context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	c.created = req
	return &notionapi.Page{ID: "new-page"}, nil
}

func (c *fakeClient) UpdatePage(_ context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	c.updateID = pageID
	c.updated = req
	return &notionapi.Page{ID: notionapi.ObjectID(pageID)}, nil
}

func sampleLead() Lead {
	return Lead{
		Name:             "Jane Doe",
		Position:         "Staff Engineer",
		Headline:         "Distributed systems",
		Location:         "Berlin",
		ProfileURL:       "https://www.linkedin.com/in/janedoe",
		PopularityScore:  72.5,
		Summary:          "Builds storage engines.",
		ConnectionNote:   "Hi Jane, loved your talk.",
		ConnectSent:      true,
		ConnectionStatus: "sent",
		DateAdded:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestUpsertLead_CreatesWhenAbsent(t *testing.T) {
	c := &fakeClient{}

	created, err := UpsertLead(context.Background(), c, "db-1", sampleLead())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Nil(t, c.updated)

	// Lookup filters on the Profile URL property.
	require.NotNil(t, c.queried)
	filter, ok := c.queried.Filter.(notionapi.PropertyFilter)
	require.True(t, ok)
	assert.Equal(t, "Profile URL", filter.Property)
	require.NotNil(t, filter.RichText)
	assert.Equal(t, "https://www.linkedin.com/in/janedoe", filter.RichText.Equals)

	require.NotNil(t, c.created)
	assert.Equal(t, notionapi.DatabaseID("db-1"), c.created.Parent.DatabaseID)

	props := c.created.Properties
	title := props["Name"].(notionapi.TitleProperty)
	require.Len(t, title.Title, 1)
	assert.Equal(t, "Jane Doe", title.Title[0].Text.Content)
	assert.Equal(t, 72.5, props["Popularity Score"].(notionapi.NumberProperty).Number)
	assert.True(t, props["Connect Sent"].(notionapi.CheckboxProperty).Checkbox)
	assert.Equal(t, "sent", props["Connection Status"].(notionapi.SelectProperty).Select.Name)
	assert.Contains(t, props, "Date Added")
}

func TestUpsertLead_UpdatePreservesDateAdded(t *testing.T) {
	c := &fakeClient{existingPageID: "page-42"}

	created, err := UpsertLead(context.Background(), c, "db-1", sampleLead())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, c.created)

	assert.Equal(t, "page-42", c.updateID)
	require.NotNil(t, c.updated)
	assert.NotContains(t, c.updated.Properties, "Date Added")
	assert.Contains(t, c.updated.Properties, "Summary")
}

func TestUpsertLead_QueryErrorSurfaces(t *testing.T) {
	c := &fakeClient{queryErr: eris.New("notion: query database")}

	_, err := UpsertLead(context.Background(), c, "db-1", sampleLead())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find lead")
	assert.Nil(t, c.created)
	assert.Nil(t, c.updated)
}

func TestLeadProperties_OmitsAbsentOptionals(t *testing.T) {
	props := leadProperties(Lead{ProfileURL: "https://example.com/p"})

	assert.NotContains(t, props, "Connection Status")
	assert.NotContains(t, props, "Date Added")
	assert.Empty(t, props["Summary"].(notionapi.RichTextProperty).RichText)
}

func TestRichText_TruncatesLongContent(t *testing.T) {
	long := strings.Repeat("é", 2500)

	rt := richText(long)
	require.Len(t, rt, 1)
	assert.Equal(t, 2000, len([]rune(rt[0].Text.Content)))

	assert.Nil(t, richText(""))
}
