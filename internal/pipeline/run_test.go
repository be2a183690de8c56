package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LesleyGao/internship-tracker/internal/config"
)

// memStore is an in-memory stand-in for the sheet.
type memStore struct {
	rows    [][]string
	header  []string
	readErr error

	cleared  int
	appended int
}

func (m *memStore) ReadAllRows(ctx context.Context) ([][]string, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([][]string, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *memStore) EnsureHeader(ctx context.Context, header []string) error {
	if m.header == nil {
		m.header = header
	}
	return nil
}

func (m *memStore) ClearRows(ctx context.Context, from, count int) error {
	start := from - 2
	if start < 0 || start+count > len(m.rows) {
		return errors.New("clear out of range")
	}
	m.rows = append(m.rows[:start], m.rows[start+count:]...)
	m.cleared += count
	return nil
}

func (m *memStore) AppendRows(ctx context.Context, rows [][]string) error {
	m.rows = append(m.rows, rows...)
	m.appended += len(rows)
	return nil
}

func (m *memStore) Close() error { return nil }

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url, kind string) config.Config {
	var cfg config.Config
	cfg.Source.Kind = kind
	cfg.Source.URL = url
	cfg.Fetch.TimeoutSeconds = 5
	cfg.Fetch.RequestsPerSecond = 100
	cfg.Fetch.Burst = 1
	cfg.Fetch.UserAgent = "test"
	cfg.Pipeline.OnEmpty = config.OnEmptyWarn
	return cfg
}

func fixedClock(t *testing.T, day string) {
	t.Helper()
	old := now
	ts, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = old })
}

const jsonFeed = `[
	{"active": true, "company_name": "Acme", "title": "SWE Intern",
	 "locations": ["NYC"], "url": "https://acme.co/apply", "date_posted": "1718000000000"},
	{"active": true, "company_name": "Beta", "title": "Data Intern",
	 "locations": [], "url": ""}
]`

func TestRunFirstSnapshot(t *testing.T) {
	fixedClock(t, "2026-08-28")
	srv := feedServer(t, jsonFeed)
	st := &memStore{}

	rep, err := Run(context.Background(), testConfig(srv.URL, config.SourceJSON), st, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Parsed)
	assert.Equal(t, 2, rep.New)
	assert.Equal(t, 0, rep.Carried)
	assert.Equal(t, 2, rep.Written)

	require.Len(t, st.rows, 2)
	require.Len(t, st.rows[0], 7)
	assert.Equal(t, "Acme", st.rows[0][0])
	assert.Equal(t, "2026-08-28", st.rows[0][4]) // date first added
	assert.Equal(t, "2026-08-28", st.rows[0][6]) // last checked
	assert.NotNil(t, st.header)
}

func TestRunCarriesHistoryAcrossRuns(t *testing.T) {
	fixedClock(t, "2026-08-28")
	srv := feedServer(t, jsonFeed)
	st := &memStore{rows: [][]string{
		{"Acme", "SWE Intern", "Boston", "https://old.co", "2026-01-05", "2026-01-01", "2026-08-27"},
		{"Gone", "Intern", "SF", "", "2026-01-05", "Unknown", "2026-08-27"},
	}}

	rep, err := Run(context.Background(), testConfig(srv.URL, config.SourceJSON), st, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Carried)
	assert.Equal(t, 1, rep.New)
	require.Len(t, st.rows, 2)

	// Acme keeps its historical dates, refreshes everything else.
	assert.Equal(t, []string{"Acme", "SWE Intern", "NYC", "https://acme.co/apply", "2026-01-05", "2026-01-01", "2026-08-28"}, st.rows[0])
	// Gone vanished from the feed and is dropped.
	assert.Equal(t, "Beta", st.rows[1][0])
}

func TestRunStoreReadErrorMeansNoHistory(t *testing.T) {
	fixedClock(t, "2026-08-28")
	srv := feedServer(t, jsonFeed)
	st := &memStore{readErr: errors.New("sheet unreachable")}

	rep, err := Run(context.Background(), testConfig(srv.URL, config.SourceJSON), st, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, rep.New)
	assert.Equal(t, 0, rep.Carried)
	assert.Len(t, st.rows, 2)
}

func TestRunZeroListingsWarnPolicyEmptiesStore(t *testing.T) {
	fixedClock(t, "2026-08-28")
	srv := feedServer(t, "no table here")
	st := &memStore{rows: [][]string{
		{"Acme", "SWE", "NYC", "", "2026-01-05", "2026-08-27"},
	}}

	cfg := testConfig(srv.URL, config.SourceMarkdown)
	rep, err := Run(context.Background(), cfg, st, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Written)
	assert.Empty(t, st.rows)
}

func TestRunZeroListingsFailPolicyAborts(t *testing.T) {
	fixedClock(t, "2026-08-28")
	srv := feedServer(t, "no table here")
	st := &memStore{rows: [][]string{
		{"Acme", "SWE", "NYC", "", "2026-01-05", "2026-08-27"},
	}}

	cfg := testConfig(srv.URL, config.SourceMarkdown)
	cfg.Pipeline.OnEmpty = config.OnEmptyFail

	_, err := Run(context.Background(), cfg, st, zerolog.Nop())
	require.Error(t, err)
	// store untouched
	assert.Len(t, st.rows, 1)
	assert.Equal(t, 0, st.cleared)
}

func TestRunFetchFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	st := &memStore{}

	_, err := Run(context.Background(), testConfig(srv.URL, config.SourceJSON), st, zerolog.Nop())
	require.Error(t, err)
	assert.Equal(t, 0, st.appended)
}

func TestRunBrokenJSONDegradesToZero(t *testing.T) {
	fixedClock(t, "2026-08-28")
	srv := feedServer(t, `{"not": "an array"}`)
	st := &memStore{}

	rep, err := Run(context.Background(), testConfig(srv.URL, config.SourceJSON), st, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Parsed)
	assert.Equal(t, 0, rep.Written)
}

func TestRunMarkdownEndToEnd(t *testing.T) {
	fixedClock(t, "2026-08-28")
	srv := feedServer(t, `| Company | Role | Location |
|---|---|---|
| [Acme](http://acme.co) | SWE Intern | [Remote](http://apply.co) |
`)
	st := &memStore{}

	rep, err := Run(context.Background(), testConfig(srv.URL, config.SourceMarkdown), st, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Written)

	require.Len(t, st.rows, 1)
	require.Len(t, st.rows[0], 6)
	assert.Equal(t, []string{"Acme", "SWE Intern", "Remote", "http://apply.co", "2026-08-28", "2026-08-28"}, st.rows[0])
}
