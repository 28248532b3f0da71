package web

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/JonMunkholm/statboard/internal/core"
	"github.com/JonMunkholm/statboard/internal/export"
	"github.com/JonMunkholm/statboard/internal/logging"
	"github.com/JonMunkholm/statboard/internal/web/templates"
)

// BoardSummary is the JSON form of a preset in the board listing.
type BoardSummary struct {
	Key         string          `json:"key"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	DefaultSort *core.SortState `json:"default_sort,omitempty"`
	URL         string          `json:"url"`
	ViewURL     string          `json:"view_url"`
}

// ViewResponse is the JSON body of /api/boards/{key}/view.
type ViewResponse struct {
	BoardID  string    `json:"board_id"`
	Key      string    `json:"key"`
	Title    string    `json:"title"`
	LoadedAt time.Time `json:"loaded_at"`
	core.Snapshot
}

// viewQuery is the sort state and search term carried in a board URL.
type viewQuery struct {
	Sort   core.SortState
	Search string
}

func parseViewQuery(r *http.Request) viewQuery {
	q := r.URL.Query()
	return viewQuery{
		Sort: core.SortState{
			Key:       q.Get("sort"),
			Direction: core.ParseSortDirection(q.Get("dir")),
		},
		Search: q.Get("q"),
	}
}

// boardURL builds path with the sort state and search term of a view.
func boardURL(path string, state core.SortState, search string) string {
	q := url.Values{}
	if state.Key != "" {
		q.Set("sort", state.Key)
		q.Set("dir", state.Direction.Short())
	}
	if search != "" {
		q.Set("q", search)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func pagePath(key string) string { return "/boards/" + url.PathEscape(key) }
func apiPath(key string) string  { return "/api/boards/" + url.PathEscape(key) }

// loadBoard loads the board named in the URL and applies the query.
func (s *Server) loadBoard(r *http.Request) (*core.Board, core.View, error) {
	board, err := s.service.Load(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		return nil, core.View{}, err
	}
	vq := parseViewQuery(r)
	return board, board.ViewWith(vq.Sort, vq.Search), nil
}

// renderPage writes a full HTML page.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	var buf bytes.Buffer
	if err := templates.Layout(title, body).Render(r.Context(), &buf); err != nil {
		s.respondError(w, r, fmt.Errorf("render page: %w", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleIndex renders the list of boards.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	presets := s.service.Presets()
	links := make([]templates.BoardLink, len(presets))
	for i, p := range presets {
		links[i] = templates.BoardLink{Preset: p, URL: pagePath(p.Key)}
	}
	s.renderPage(w, r, "Leaderboards", templates.Index(links))
}

// handleBoard renders one board as an HTML table. Header links carry the
// sort state a click on that header produces.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	board, v, err := s.loadBoard(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	key := board.Preset.Key
	headers := v.Headers()
	links := make([]string, len(headers))
	for i, h := range headers {
		if !h.Sortable {
			continue
		}
		links[i] = boardURL(pagePath(key), v.OnHeaderClick(h.Key).Sort(), v.Search())
	}

	page := templates.BoardPage{
		Preset:       board.Preset,
		View:         v,
		HeaderLinks:  links,
		SearchAction: pagePath(key),
		ExportCSV:    boardURL(apiPath(key)+"/export.csv", v.Sort(), v.Search()),
		ExportXLSX:   boardURL(apiPath(key)+"/export.xlsx", v.Sort(), v.Search()),
		JSON:         boardURL(apiPath(key)+"/view", v.Sort(), v.Search()),
		LoadedAt:     board.LoadedAt,
	}

	s.observeView(key, "html")
	s.renderPage(w, r, board.Preset.Title, templates.Board(page))
}

// handleListBoards returns every registered board.
func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	presets := s.service.Presets()
	out := make([]BoardSummary, len(presets))
	for i, p := range presets {
		sum := BoardSummary{
			Key:         p.Key,
			Title:       p.Title,
			Description: p.Description,
			URL:         pagePath(p.Key),
			ViewURL:     apiPath(p.Key) + "/view",
		}
		if p.DefaultSort.Key != "" {
			ds := p.DefaultSort
			sum.DefaultSort = &ds
		}
		out[i] = sum
	}
	render.JSON(w, r, out)
}

// handleBoardView returns the view snapshot for a board as JSON.
func (s *Server) handleBoardView(w http.ResponseWriter, r *http.Request) {
	board, v, err := s.loadBoard(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	s.observeView(board.Preset.Key, "json")
	render.JSON(w, r, ViewResponse{
		BoardID:  board.ID,
		Key:      board.Preset.Key,
		Title:    board.Preset.Title,
		LoadedAt: board.LoadedAt,
		Snapshot: v.Snapshot(),
	})
}

func exportOptions(r *http.Request) export.Options {
	tiers, _ := strconv.ParseBool(r.URL.Query().Get("tiers"))
	return export.Options{Tiers: tiers}
}

func exportFilename(key, ext string) string {
	return fmt.Sprintf("%s_%s.%s", key, time.Now().Format("20060102_150405"), ext)
}

// handleExportCSV downloads the visible rows as CSV.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, "csv", export.ContentTypeCSV, export.CSV)
}

// handleExportXLSX downloads the visible rows as an Excel workbook.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, "xlsx", export.ContentTypeXLSX, export.XLSX)
}

type exportFunc func(w io.Writer, v core.View, opts export.Options) error

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, ext, contentType string, write exportFunc) {
	board, v, err := s.loadBoard(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	// Buffer so a failed export still gets a proper error response.
	var buf bytes.Buffer
	if err := write(&buf, v, exportOptions(r)); err != nil {
		s.respondError(w, r, fmt.Errorf("export %s: %w", ext, err), http.StatusInternalServerError)
		return
	}

	key := board.Preset.Key
	s.observeView(key, ext)
	logging.WithFields(r.Context(), "preset", key, "format", ext).Debug("board exported",
		"rows", len(v.Rows()),
		"bytes", buf.Len(),
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(key, ext)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// handleHealth reports liveness and the number of registered boards.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status": "ok",
		"boards": core.Count(),
	})
}
