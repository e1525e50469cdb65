// Package citation holds the structured citation model, the heuristic
// free-text parser, and the style renderers.
//
// All functions are pure: no I/O, no shared state. Parse never fails and
// Render never fails; absent fields are omitted, not errored on.
package citation

// Fields is the structured representation of one citation. Every field
// except RawText is optional; no field implies another is present.
type Fields struct {
	Author    string `json:"author,omitempty"`
	Title     string `json:"title,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Place     string `json:"place,omitempty"`
	Year      string `json:"year,omitempty"`
	Page      string `json:"page,omitempty"`

	// RawText is the original note text, set once at parse time and never
	// modified afterwards.
	RawText string `json:"raw_text"`
}

// Merge fills empty fields from other. Populated fields are never
// overwritten: locally parsed values always win over enrichment values.
// RawText is not merged.
func (f *Fields) Merge(other *Fields) {
	if other == nil {
		return
	}
	if f.Author == "" {
		f.Author = other.Author
	}
	if f.Title == "" {
		f.Title = other.Title
	}
	if f.Publisher == "" {
		f.Publisher = other.Publisher
	}
	if f.Place == "" {
		f.Place = other.Place
	}
	if f.Year == "" {
		f.Year = other.Year
	}
	if f.Page == "" {
		f.Page = other.Page
	}
}

// Style identifies a citation formatting convention.
type Style string

const (
	StyleChicago  Style = "chicago"
	StyleMLA      Style = "mla"
	StyleAPA      Style = "apa"
	StyleBluebook Style = "bluebook"
)

// ParseStyle maps a user-supplied style name to a Style.
// Unknown or empty input falls back to chicago.
func ParseStyle(s string) Style {
	switch Style(s) {
	case StyleMLA:
		return StyleMLA
	case StyleAPA:
		return StyleAPA
	case StyleBluebook:
		return StyleBluebook
	default:
		return StyleChicago
	}
}

// Styles returns all supported style names.
func Styles() []string {
	return []string{
		string(StyleChicago),
		string(StyleMLA),
		string(StyleAPA),
		string(StyleBluebook),
	}
}
