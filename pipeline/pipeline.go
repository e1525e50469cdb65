// Package pipeline sequences the citation transformation for one document:
// extract endnotes, parse each, enrich, merge, render, write back.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/refmill/refmill/citation"
	"github.com/refmill/refmill/docx"
)

// Enricher fills citation fields from an external bibliographic source.
// A false return means "no usable result", never an error: enrichment
// failures degrade to locally parsed fields.
type Enricher interface {
	Lookup(ctx context.Context, author, title string) (*citation.Fields, bool)
}

var (
	// ErrNoEndnotes reports a container without a usable endnote storage
	// part. Fatal for the whole document.
	ErrNoEndnotes = errors.New("no endnotes found in document")

	// ErrMalformedContainer reports a container that cannot be unpacked or
	// repacked. Fatal for the whole document.
	ErrMalformedContainer = errors.New("malformed container")
)

// previewLen caps the log excerpts of original and formatted text.
const previewLen = 100

// Config configures a Processor.
type Config struct {
	// Enricher is the external lookup. Nil disables enrichment entirely.
	Enricher Enricher `json:"-" yaml:"-"`

	// Logger for per-document info messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Processor runs the citation pipeline. Stateless across documents: one
// Processor serves concurrent requests.
type Processor struct {
	cfg Config
}

// New creates a Processor with the given configuration.
func New(cfg Config) *Processor {
	cfg.defaults()
	return &Processor{cfg: cfg}
}

// LogEntry records the processing of one endnote, for reporting only.
type LogEntry struct {
	NoteID    string `json:"id"`
	Original  string `json:"original"`
	Formatted string `json:"formatted"`
}

// Result is the outcome of one successfully processed document.
type Result struct {
	EndnotesProcessed int        `json:"endnotes_processed"`
	Log               []LogEntry `json:"log"`

	// Output is the repacked container.
	Output []byte `json:"-"`
}

// Process transforms every endnote of the container into a formatted
// citation in the requested style and returns the rewritten container.
//
// Per-note enrichment failures never abort the document; a missing or
// malformed endnote part (ErrNoEndnotes) or an unpackable container
// (ErrMalformedContainer) aborts the whole request with no output.
func (p *Processor) Process(ctx context.Context, input []byte, style citation.Style) (*Result, error) {
	ar, err := docx.ReadArchive(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}

	part, ok := ar.Part(docx.EndnotesPath)
	if !ok {
		return nil, ErrNoEndnotes
	}

	notes, err := docx.ExtractEndnotes(part)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoEndnotes, err)
	}

	result := &Result{}
	formatted := make(map[string]string, len(notes))

	for _, note := range notes {
		fields := citation.Parse(note.Text)

		if p.cfg.Enricher != nil && (fields.Author != "" || fields.Title != "") {
			if enriched, ok := p.cfg.Enricher.Lookup(ctx, fields.Author, fields.Title); ok {
				fields.Merge(enriched)
			}
		}

		rendered := citation.Render(fields, style)
		formatted[note.ID] = citation.StripEmphasis(rendered)

		result.Log = append(result.Log, LogEntry{
			NoteID:    note.ID,
			Original:  preview(note.Text),
			Formatted: preview(rendered),
		})
	}
	result.EndnotesProcessed = len(formatted)

	ar.SetPart(docx.EndnotesPath, docx.ApplyFormatted(part, formatted))

	out, err := ar.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}
	result.Output = out

	p.cfg.Logger.Info("document processed",
		"style", string(style),
		"endnotes", result.EndnotesProcessed)

	return result, nil
}

// preview truncates s to previewLen runes for log entries.
func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen])
}
