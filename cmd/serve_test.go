package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/store"
)

type stubLeadStore struct {
	records []*model.LeadRecord
	listErr error
}

func (s *stubLeadStore) Upsert(context.Context, *model.LeadRecord) (model.UpsertResult, error) {
	return model.UpsertCreated, nil
}

func (s *stubLeadStore) List(context.Context) ([]*model.LeadRecord, error) {
	return s.records, s.listErr
}

func (s *stubLeadStore) Close() error { return nil }

type stubRunStore struct {
	runs []model.Run
}

func (s *stubRunStore) CreateRun(context.Context, string, string) (*model.Run, error) {
	return nil, nil
}

func (s *stubRunStore) UpdateRunResult(context.Context, string, model.RunStatus, *model.RunResult) error {
	return nil
}

func (s *stubRunStore) GetRun(context.Context, string) (*model.Run, error) { return nil, nil }
func (s *stubRunStore) ListRuns(context.Context, store.RunFilter) ([]model.Run, error) {
	return s.runs, nil
}
func (s *stubRunStore) Close() error { return nil }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestStatusRouter_Healthz(t *testing.T) {
	rec := get(t, statusRouter(&stubLeadStore{}, nil), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusRouter_Leads(t *testing.T) {
	name := "Jane Doe"
	ls := &stubLeadStore{records: []*model.LeadRecord{{
		Profile:         model.Profile{URL: "https://www.linkedin.com/in/janedoe", Name: &name},
		PopularityScore: 42.0,
	}}}

	rec := get(t, statusRouter(ls, nil), "/api/leads")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "https://www.linkedin.com/in/janedoe", got[0]["url"])
	assert.Equal(t, 42.0, got[0]["popularity_score"])
}

func TestStatusRouter_LeadsEmptyIsArray(t *testing.T) {
	rec := get(t, statusRouter(&stubLeadStore{}, nil), "/api/leads")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestStatusRouter_LeadsError(t *testing.T) {
	ls := &stubLeadStore{listErr: eris.New("leads: closed")}
	rec := get(t, statusRouter(ls, nil), "/api/leads")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStatusRouter_RunsDisabled(t *testing.T) {
	rec := get(t, statusRouter(&stubLeadStore{}, nil), "/api/runs")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "run history disabled")
}

func TestStatusRouter_Runs(t *testing.T) {
	rs := &stubRunStore{runs: []model.Run{{ID: "run-1", Status: model.RunStatusComplete}}}
	rec := get(t, statusRouter(&stubLeadStore{}, rs), "/api/runs")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []model.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "run-1", got[0].ID)
}
