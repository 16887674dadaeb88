package salesforce

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	queryResult   []leadURLRecord
	queryErr      error
	insertResults []CollectionResult
	insertErr     error

	soql     string
	inserted [][]map[string]any
	updated  map[string]map[string]any
}

func (c *fakeClient) Query(_ context.Context, soql string, out any) error {
	c.soql = soql
	if c.queryErr != nil {
		return c.queryErr
	}
	data, err := json.Marshal(c.queryResult)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (c *fakeClient) UpdateOne(_ context.Context, _ string, id string, fields map[string]any) error {
	if c.updated == nil {
		c.updated = map[string]map[string]any{}
	}
	c.updated[id] = fields
	return nil
}

func (c *fakeClient) InsertCollection(_ context.Context, _ string, records []map[string]any) ([]CollectionResult, error) {
	c.inserted = append(c.inserted, records)
	if c.insertErr != nil {
		return nil, c.insertErr
	}
	if c.insertResults != nil {
		return c.insertResults, nil
	}
	results := make([]CollectionResult, len(records))
	for i := range results {
		results[i] = CollectionResult{ID: "00Q00000000000" + string(rune('1'+i)), Success: true}
	}
	return results, nil
}

func sampleLead() Lead {
	return Lead{
		Name:             "Jane van der Berg",
		Position:         "Staff Engineer",
		Location:         "Amsterdam",
		ProfileURL:       "https://www.linkedin.com/in/janevdb",
		PopularityScore:  72.5,
		Summary:          "Distributed systems engineer.",
		ConnectionStatus: "sent",
	}
}

func TestSyncLeads_CreatesBatchWhenAbsent(t *testing.T) {
	c := &fakeClient{}
	second := sampleLead()
	second.Name = "Ada Lovelace"
	second.ProfileURL = "https://www.linkedin.com/in/ada"

	res, err := SyncLeads(context.Background(), c, []Lead{sampleLead(), second})
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Created: 2}, res)

	assert.Equal(t,
		"SELECT Id, LinkedIn_URL__c FROM Lead WHERE LinkedIn_URL__c IN "+
			"('https://www.linkedin.com/in/janevdb','https://www.linkedin.com/in/ada')",
		c.soql)

	// One collection call carrying every new record.
	require.Len(t, c.inserted, 1)
	require.Len(t, c.inserted[0], 2)
	fields := c.inserted[0][0]
	assert.Equal(t, "Jane van der", fields["FirstName"])
	assert.Equal(t, "Berg", fields["LastName"])
	assert.Equal(t, "Unknown", fields["Company"])
	assert.Equal(t, "Staff Engineer", fields["Title"])
	assert.Equal(t, "Amsterdam", fields["City"])
	assert.Equal(t, "LinkedIn Outreach", fields["LeadSource"])
	assert.Equal(t, "Working - Contacted", fields["Status"])
	assert.Equal(t, "https://www.linkedin.com/in/janevdb", fields["LinkedIn_URL__c"])
	assert.Empty(t, c.updated)
}

func TestSyncLeads_UpdatesExistingInPlace(t *testing.T) {
	c := &fakeClient{queryResult: []leadURLRecord{
		{ID: "00Q000000000042", URL: "https://www.linkedin.com/in/janevdb"},
	}}
	fresh := sampleLead()
	fresh.ProfileURL = "https://www.linkedin.com/in/ada"

	res, err := SyncLeads(context.Background(), c, []Lead{sampleLead(), fresh})
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Created: 1, Updated: 1}, res)

	require.Contains(t, c.updated, "00Q000000000042")
	assert.Equal(t, "Berg", c.updated["00Q000000000042"]["LastName"])
	require.Len(t, c.inserted, 1)
	require.Len(t, c.inserted[0], 1)
	assert.Equal(t, "https://www.linkedin.com/in/ada", c.inserted[0][0]["LinkedIn_URL__c"])
}

func TestSyncLeads_MissingURLCountsFailed(t *testing.T) {
	noURL := sampleLead()
	noURL.ProfileURL = ""

	res, err := SyncLeads(context.Background(), &fakeClient{}, []Lead{noURL})
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Failed: 1}, res)
}

func TestSyncLeads_PerRecordInsertFailuresCounted(t *testing.T) {
	c := &fakeClient{insertResults: []CollectionResult{
		{ID: "00Q000000000001", Success: true},
		{Success: false, Errors: []string{"REQUIRED_FIELD_MISSING"}},
	}}
	second := sampleLead()
	second.ProfileURL = "https://www.linkedin.com/in/ada"

	res, err := SyncLeads(context.Background(), c, []Lead{sampleLead(), second})
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Created: 1, Failed: 1}, res)
}

func TestSyncLeads_QueryErrorAbortsBatch(t *testing.T) {
	c := &fakeClient{queryErr: eris.New("sf: query")}

	_, err := SyncLeads(context.Background(), c, []Lead{sampleLead()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find leads")
	assert.Empty(t, c.inserted)
}

func TestSyncLeads_EmptyBatchIsNoop(t *testing.T) {
	c := &fakeClient{}

	res, err := SyncLeads(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{}, res)
	assert.Empty(t, c.soql, "no lookup without leads")
}

func TestLeadFields_OmitsEmptyOptionals(t *testing.T) {
	fields := leadFields(Lead{Name: "Prince", ProfileURL: "https://example.com/p"})

	assert.NotContains(t, fields, "FirstName")
	assert.NotContains(t, fields, "City")
	assert.NotContains(t, fields, "Status")
	assert.Equal(t, "Prince", fields["LastName"])
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane van der Berg", "Jane van der", "Berg"},
		{"Prince", "", "Prince"},
		{"  Ada Lovelace  ", "Ada", "Lovelace"},
		{"", "", "Unknown"},
	}
	for _, tt := range tests {
		first, last := splitName(tt.name)
		assert.Equal(t, tt.first, first, tt.name)
		assert.Equal(t, tt.last, last, tt.name)
	}
}

func TestLeadStatus(t *testing.T) {
	assert.Equal(t, "Working - Contacted", leadStatus("sent"))
	assert.Equal(t, "Working - Contacted", leadStatus("already_connected"))
	assert.Equal(t, "Open - Not Contacted", leadStatus("skipped_test_mode"))
	assert.Equal(t, "Open - Not Contacted", leadStatus("failed: no control"))
}

func TestSoqlEscape(t *testing.T) {
	assert.Equal(t, `O\'Brien`, soqlEscape("O'Brien"))
	assert.Equal(t, `a\\b`, soqlEscape(`a\b`))
	assert.Equal(t, `\\\'`, soqlEscape(`\'`))
}
