package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/statboard/internal/config"
	"github.com/JonMunkholm/statboard/internal/core"
	"github.com/JonMunkholm/statboard/internal/fetch"
	"github.com/JonMunkholm/statboard/internal/metrics"
)

func TestMain(m *testing.M) {
	core.Clear()
	core.Register(core.Preset{
		Key:       "scores",
		Title:     "Scores",
		Source:    "scores.csv",
		SearchKey: "Name",
		Types:     map[string]core.FieldType{"Games": core.FieldNumber, "MSR": core.FieldNumber},
		Relocations: []core.Relocation{
			{Key: "MSR", Before: "Games", Spacer: true},
		},
		Columns: []core.ColumnStyle{{
			Key:   "MSR",
			Tiers: core.NewTierRules("emerging", core.TierRule{Threshold: 20, Label: "elite"}, core.TierRule{Threshold: 10, Label: "strong"}),
		}},
	})
	core.Register(core.Preset{Key: "missing", Source: "missing.csv"})
	core.Register(core.Preset{Key: "empty", Source: "empty.csv"})
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, env map[string]string) (*Server, *metrics.Recorder) {
	t.Helper()

	if env == nil {
		env = map[string]string{"RATE_LIMIT_ENABLED": "false"}
	}
	cfg, err := config.LoadFrom(config.MapLookup(env))
	require.NoError(t, err)

	files := fstest.MapFS{
		"scores.csv": {Data: []byte("Name,Games,MSR\nA,1,25\nB,2,5\nC,3,15\n")},
		"empty.csv":  {Data: []byte("  \n")},
	}
	rec := metrics.New()
	fetcher := fetch.Observe(&fetch.Dir{FS: files}, rec)

	return NewServer(core.NewService(fetcher), cfg, rec), rec
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) ViewResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var v ViewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func column(v ViewResponse, key string) []string {
	var out []string
	for _, r := range v.Rows {
		for _, c := range r.Cells {
			if c.Key == key {
				out = append(out, c.Text)
			}
		}
	}
	return out
}

func TestBoardView_FileOrder(t *testing.T) {
	s, _ := newTestServer(t, nil)

	v := decodeView(t, get(t, s, "/api/boards/scores/view"))

	assert.Equal(t, "scores", v.Key)
	assert.NotEmpty(t, v.BoardID)
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, []string{"A", "B", "C"}, column(v, "Name"))

	keys := make([]string, len(v.Headers))
	for i, h := range v.Headers {
		keys[i] = h.Key
	}
	assert.Equal(t, []string{"Name", "spacer:MSR", "MSR", "Games"}, keys)
	assert.False(t, v.Headers[1].Sortable, "spacer is not sortable")
}

func TestBoardView_SortAndClassify(t *testing.T) {
	s, _ := newTestServer(t, nil)

	v := decodeView(t, get(t, s, "/api/boards/scores/view?sort=MSR&dir=desc"))

	assert.Equal(t, []string{"A", "C", "B"}, column(v, "Name"))
	assert.Equal(t, core.SortState{Key: "MSR", Direction: core.Descending}, v.Sort)

	var tiers []string
	for _, r := range v.Rows {
		for _, c := range r.Cells {
			if c.Key == "MSR" {
				tiers = append(tiers, c.Tier)
			}
		}
	}
	assert.Equal(t, []string{"elite", "strong", "emerging"}, tiers)
}

func TestBoardView_Search(t *testing.T) {
	s, _ := newTestServer(t, nil)

	v := decodeView(t, get(t, s, "/api/boards/scores/view?q=b"))

	assert.Equal(t, []string{"B"}, column(v, "Name"))
	assert.Equal(t, 1, v.Visible)
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, "b", v.Search)
}

func TestBoardView_UnknownSortKeyKeepsFileOrder(t *testing.T) {
	s, _ := newTestServer(t, nil)

	v := decodeView(t, get(t, s, "/api/boards/scores/view?sort=Nope&dir=desc"))
	assert.Equal(t, []string{"A", "B", "C"}, column(v, "Name"))
	assert.Equal(t, "", v.Sort.Key)
}

func TestBoardView_Errors(t *testing.T) {
	s, _ := newTestServer(t, nil)

	tests := []struct {
		target string
		status int
		code   string
	}{
		{"/api/boards/nope/view", http.StatusNotFound, "PRE001"},
		{"/api/boards/missing/view", http.StatusBadGateway, "FETCH002"},
		{"/api/boards/empty/view", http.StatusUnprocessableEntity, "CSV001"},
		{"/api/nothing-here", http.StatusNotFound, "HTTP404"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, s, tt.target)
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestBoardPage(t *testing.T) {
	s, _ := newTestServer(t, nil)

	res := get(t, s, "/boards/scores?sort=MSR&dir=asc&q=")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "text/html; charset=utf-8", res.Header().Get("Content-Type"))

	body := res.Body.String()
	assert.Contains(t, body, "<title>Scores</title>")
	// Clicking the active ascending column flips it to descending.
	assert.Contains(t, body, `href="/boards/scores?dir=desc&amp;sort=MSR"`)
	// Other columns start ascending.
	assert.Contains(t, body, `href="/boards/scores?dir=asc&amp;sort=Name"`)
	assert.Contains(t, body, `class="tier-elite"`)
	assert.Contains(t, body, `/api/boards/scores/export.csv?dir=asc&amp;sort=MSR`)

	metricsBody := get(t, s, "/metrics").Body.String()
	assert.Contains(t, metricsBody, `statboard_views_total{format="html",preset="scores"} 1`)
}

func TestBoardPage_NotFoundRendersHTML(t *testing.T) {
	s, _ := newTestServer(t, nil)

	res := get(t, s, "/boards/nope")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, res.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, res.Body.String(), "Code: PRE001")
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t, nil)

	res := get(t, s, "/")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `<a href="/boards/scores">Scores</a>`)
}

func TestListBoards(t *testing.T) {
	s, _ := newTestServer(t, nil)

	res := get(t, s, "/api/boards")
	require.Equal(t, http.StatusOK, res.Code)

	var boards []BoardSummary
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &boards))

	keys := make([]string, len(boards))
	for i, b := range boards {
		keys[i] = b.Key
	}
	assert.Equal(t, []string{"empty", "missing", "scores"}, keys)
	assert.Equal(t, "/api/boards/scores/view", boards[2].ViewURL)
}

func TestExportCSV(t *testing.T) {
	s, _ := newTestServer(t, nil)

	res := get(t, s, "/api/boards/scores/export.csv?sort=MSR&dir=desc&tiers=true")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Header().Get("Content-Disposition"), `attachment; filename="scores_`)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Equal(t, []string{
		"Name,,MSR,MSR tier,Games",
		"A,,25,elite,1",
		"C,,15,strong,3",
		"B,,5,emerging,2",
	}, lines)
}

func TestExportXLSX(t *testing.T) {
	s, _ := newTestServer(t, nil)

	res := get(t, s, "/api/boards/scores/export.xlsx?q=c")
	require.Equal(t, http.StatusOK, res.Code)

	f, err := excelize.OpenReader(bytes.NewReader(res.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Board")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name", "", "MSR", "Games"}, {"C", "", "15", "3"}}, rows)
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, nil)

	res := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok","boards":3}`, res.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	s, _ := newTestServer(t, nil)

	res := get(t, s, "/healthz")
	assert.Equal(t, "nosniff", res.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", res.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, res.Header().Get("Content-Security-Policy"))
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, map[string]string{
		"RATE_LIMIT_ENABLED": "true",
		"RATE_LIMIT_RPS":     "0.1",
		"RATE_LIMIT_BURST":   "1",
	})

	require.Equal(t, http.StatusOK, get(t, s, "/api/boards").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, s, "/api/boards").Code)

	// Health checks bypass the limiter.
	assert.Equal(t, http.StatusOK, get(t, s, "/healthz").Code)
}

func TestStaticCSS(t *testing.T) {
	s, _ := newTestServer(t, nil)

	res := get(t, s, "/static/board.css")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), ".tier-high")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrPresetNotFound, http.StatusNotFound},
		{&fetch.Error{Source: "x", Err: fetch.ErrTooManyFetches}, http.StatusServiceUnavailable},
		{&fetch.Error{Source: "x", Status: 500}, http.StatusBadGateway},
		{core.ErrDuplicateKey, http.StatusUnprocessableEntity},
		{core.ErrUnknownColumn, http.StatusUnprocessableEntity},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "statusFor(%v)", tt.err)
	}
}
