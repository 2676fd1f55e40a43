package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/seminarops/rollcall/internal/decode"
	"github.com/seminarops/rollcall/internal/export"
	"github.com/seminarops/rollcall/internal/merge"
	"github.com/seminarops/rollcall/internal/roster"
	"github.com/seminarops/rollcall/internal/textutil"
	"github.com/seminarops/rollcall/internal/topics"
)

// parseRoster handles POST /api/v1/roster/parse: one PDF upload in, the
// structured roster out.
func (s *Server) parseRoster(w http.ResponseWriter, r *http.Request) {
	buf, _, ok := readUpload(w, r)
	if !ok {
		return
	}

	lines, err := decode.PDFText(buf)
	if err != nil {
		slog.Error("roster pdf decode failed", "error", err)
		writeError(w, http.StatusInternalServerError, "decode roster PDF: %v", err)
		return
	}

	entries := s.extractor.Extract(lines)
	if len(entries) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "%v — check the PDF layout", roster.ErrNoRows)
		return
	}

	slog.Info("roster parsed", "lines", len(lines), "entries", len(entries))
	writeJSON(w, http.StatusOK, map[string]any{"rows": entries})
}

// parseTopics handles POST /api/v1/topics/parse. The upload may be tabular
// (csv/xlsx) or an agenda-style PDF; the extension decides.
func (s *Server) parseTopics(w http.ResponseWriter, r *http.Request) {
	buf, filename, ok := readUpload(w, r)
	if !ok {
		return
	}

	var entries []topics.Entry
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		lines, err := decode.PDFText(buf)
		if err != nil {
			slog.Error("topics pdf decode failed", "error", err)
			writeError(w, http.StatusInternalServerError, "decode topics PDF: %v", err)
			return
		}
		entries = s.builder.FromText(lines)
	} else {
		rows, err := decode.SheetRows(buf, filename)
		if errors.Is(err, decode.ErrUnsupportedFormat) {
			writeError(w, http.StatusUnprocessableEntity, "upload a CSV, XLSX, or PDF file")
			return
		}
		if err != nil {
			slog.Error("topics sheet decode failed", "file", filename, "error", err)
			writeError(w, http.StatusInternalServerError, "decode topics file: %v", err)
			return
		}
		entries = s.builder.FromRows(rows)
	}

	if len(entries) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "%v — the file needs a date column", topics.ErrNoTopics)
		return
	}

	slog.Info("topics parsed", "file", filename, "entries", len(entries))
	writeJSON(w, http.StatusOK, map[string]any{"rows": entries})
}

// mergeTranscript handles POST /api/v1/merge: a .txt transcript upload plus
// the parsed roster (and optionally topics) as JSON form values.
func (s *Server) mergeTranscript(w http.ResponseWriter, r *http.Request) {
	buf, _, ok := readUpload(w, r)
	if !ok {
		return
	}

	rosterJSON := r.FormValue("roster")
	if rosterJSON == "" {
		writeError(w, http.StatusBadRequest, "missing roster")
		return
	}
	var entries []roster.Entry
	if err := json.Unmarshal([]byte(rosterJSON), &entries); err != nil {
		writeError(w, http.StatusBadRequest, "malformed roster: %v", err)
		return
	}

	var topicEntries []topics.Entry
	if topicsJSON := r.FormValue("topics"); topicsJSON != "" {
		if err := json.Unmarshal([]byte(topicsJSON), &topicEntries); err != nil {
			writeError(w, http.StatusBadRequest, "malformed topics: %v", err)
			return
		}
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	results := s.scanner.Scan(textutil.Lines(string(buf)), names)
	run := merge.NewRun(entries, results, topicEntries)

	slog.Info("merge completed",
		"run_id", run.ID, "roster", len(entries), "matched", len(results))
	writeJSON(w, http.StatusOK, run)
}

type exportRequest struct {
	Rows    []merge.Row `json:"rows"`
	Variant string      `json:"variant"`
}

// exportRows handles POST /api/v1/export: reviewed rows in, an xlsx
// download out.
func (s *Server) exportRows(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %v", err)
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "missing rows")
		return
	}

	variant := export.VariantFull
	switch req.Variant {
	case "", string(export.VariantFull):
	case string(export.VariantMinimal):
		variant = export.VariantMinimal
	default:
		writeError(w, http.StatusBadRequest, "unknown variant %q", req.Variant)
		return
	}

	data, err := export.Workbook(req.Rows, variant)
	if err != nil {
		slog.Error("export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "build workbook: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="merge.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// readUpload pulls the "file" part out of a multipart request. On failure it
// writes the error response and returns ok=false.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return nil, "", false
	}
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: %v", err)
		return nil, "", false
	}
	return buf, header.Filename, true
}
