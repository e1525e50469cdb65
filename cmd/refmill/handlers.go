package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/refmill/refmill/citation"
	"github.com/refmill/refmill/guard"
	"github.com/refmill/refmill/history"
	"github.com/refmill/refmill/pipeline"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// processHandler accepts a multipart upload (fields: file, style, format)
// and responds with the rewritten document as an attachment, or a JSON
// error body.
func processHandler(proc *pipeline.Processor, hist *history.Store, maxUpload int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := guard.GetLogger(r.Context())

		if err := r.ParseMultipartForm(maxUpload); err != nil {
			// guard.MaxBody caps the body; the cap surfaces here during form parsing.
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge,
					fmt.Errorf("upload exceeds the %d byte limit", tooLarge.Limit))
				return
			}
			writeError(w, http.StatusBadRequest, errors.New("no file uploaded"))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("no file uploaded"))
			return
		}
		defer file.Close()

		name := filepath.Base(header.Filename)
		if name == "" || name == "." || !strings.HasSuffix(strings.ToLower(name), ".docx") {
			writeError(w, http.StatusBadRequest, errors.New("only .docx files are supported"))
			return
		}

		style := citation.ParseStyle(r.FormValue("style"))
		if f := r.FormValue("format"); f != "" {
			logger.Debug("format flag", "format", f)
		}

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("could not read upload"))
			return
		}

		entry := history.NewEntry(name, string(style))
		result, err := proc.Process(r.Context(), data, style)
		if err != nil {
			entry.Status = "failed"
			entry.Error = err.Error()
			if hist != nil {
				hist.RecordAsync(entry)
			}
			logger.Warn("processing failed", "filename", name, "error", err)

			code := http.StatusInternalServerError
			if errors.Is(err, pipeline.ErrNoEndnotes) || errors.Is(err, pipeline.ErrMalformedContainer) {
				code = http.StatusUnprocessableEntity
			}
			writeError(w, code, err)
			return
		}

		entry.Status = "ok"
		entry.EndnotesProcessed = result.EndnotesProcessed
		if hist != nil {
			hist.RecordAsync(entry)
		}
		logger.Info("document formatted",
			"filename", name,
			"style", string(style),
			"endnotes", result.EndnotesProcessed)

		outName := strings.TrimSuffix(name, filepath.Ext(name)) + "_formatted.docx"
		w.Header().Set("Content-Type", docxMIME)
		w.Header().Set("Content-Disposition", `attachment; filename="`+outName+`"`)
		w.Header().Set("X-Endnotes-Processed", strconv.Itoa(result.EndnotesProcessed))
		w.WriteHeader(http.StatusOK)
		w.Write(result.Output)
	}
}

// historyHandler lists recent processing outcomes, newest first.
func historyHandler(hist *history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 50)
		entries, err := hist.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, errors.New("history unavailable"))
			return
		}
		if entries == nil {
			entries = []history.Entry{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
