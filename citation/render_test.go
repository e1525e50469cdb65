package citation

import (
	"strings"
	"testing"
)

func fullFields() Fields {
	return Fields{
		Author:    "Jane Q Smith",
		Title:     "A Study of Things",
		Publisher: "Acme Press",
		Place:     "Boston",
		Year:      "1999",
		Page:      "42",
		RawText:   "raw",
	}
}

func TestRender_Chicago(t *testing.T) {
	got := Render(fullFields(), StyleChicago)
	want := "Jane Q Smith, <em>A Study of Things</em> (Boston: Acme Press, 1999), 42."
	if got != want {
		t.Errorf("chicago = %q, want %q", got, want)
	}
}

func TestRender_MLA(t *testing.T) {
	got := Render(fullFields(), StyleMLA)
	want := "Smith, Jane Q. <em>A Study of Things</em>. Acme Press, 1999, pp. 42."
	if got != want {
		t.Errorf("mla = %q, want %q", got, want)
	}
}

func TestRender_APA(t *testing.T) {
	got := Render(fullFields(), StyleAPA)
	want := "Smith, J. Q. (1999). <em>A Study of Things</em>. Boston: Acme Press, pp. 42."
	if got != want {
		t.Errorf("apa = %q, want %q", got, want)
	}
}

func TestRender_Bluebook(t *testing.T) {
	got := Render(fullFields(), StyleBluebook)
	want := "Jane Q Smith, A STUDY OF THINGS 42 (Acme Press 1999)."
	if got != want {
		t.Errorf("bluebook = %q, want %q", got, want)
	}
}

func TestRender_UnknownStyleFallsBackToChicago(t *testing.T) {
	f := fullFields()
	if Render(f, Style("harvard")) != Render(f, StyleChicago) {
		t.Error("unknown style should render as chicago")
	}
}

func TestRender_BluebookEmptyIsUntitled(t *testing.T) {
	got := Render(Fields{RawText: "x"}, StyleBluebook)
	if got != "UNTITLED." {
		t.Errorf("bluebook empty = %q, want %q", got, "UNTITLED.")
	}
}

func TestRender_EmptyFieldsNeverBlank(t *testing.T) {
	// WHAT: every style renders a non-empty string for all-empty fields.
	// WHY: rendering must never fail or produce nothing for a note.
	for _, style := range []Style{StyleChicago, StyleMLA, StyleAPA, StyleBluebook} {
		got := Render(Fields{RawText: "x"}, style)
		if got == "" {
			t.Errorf("%s rendered empty string", style)
		}
	}
}

func TestRender_NoDanglingSeparators(t *testing.T) {
	tests := []struct {
		name  string
		f     Fields
		style Style
		want  string
	}{
		{
			name:  "chicago place without publisher or year",
			f:     Fields{Author: "Smith", Title: "T", Place: "Boston"},
			style: StyleChicago,
			want:  "Smith, <em>T</em> (Boston).",
		},
		{
			name:  "chicago year only in parenthetical",
			f:     Fields{Title: "T", Year: "1999"},
			style: StyleChicago,
			want:  "<em>T</em> (1999).",
		},
		{
			name:  "chicago page only",
			f:     Fields{Page: "42"},
			style: StyleChicago,
			want:  "42.",
		},
		{
			name:  "mla no author",
			f:     Fields{Title: "T", Year: "1999"},
			style: StyleMLA,
			want:  "<em>T</em>, 1999.",
		},
		{
			name:  "apa year with no author",
			f:     Fields{Title: "T", Year: "1999"},
			style: StyleAPA,
			want:  "(1999). <em>T</em>.",
		},
		{
			name:  "apa publisher without place",
			f:     Fields{Author: "Jane Smith", Publisher: "Acme Press"},
			style: StyleAPA,
			want:  "Smith, J. Acme Press.",
		},
		{
			name:  "apa year then publisher avoids doubled period",
			f:     Fields{Year: "1999", Publisher: "Acme Press"},
			style: StyleAPA,
			want:  "(1999). Acme Press.",
		},
		{
			name:  "bluebook year without publisher",
			f:     Fields{Title: "T", Year: "1999"},
			style: StyleBluebook,
			want:  "T (1999).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.f, tt.style)
			if got != tt.want {
				t.Errorf("Render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_SingleTokenAuthorNotInverted(t *testing.T) {
	f := Fields{Author: "Smith", Title: "T"}
	if got := Render(f, StyleMLA); !strings.HasPrefix(got, "Smith.") {
		t.Errorf("mla single-token author = %q, want prefix %q", got, "Smith.")
	}
	if got := Render(f, StyleAPA); !strings.HasPrefix(got, "Smith ") && !strings.HasPrefix(got, "Smith.") {
		t.Errorf("apa single-token author = %q", got)
	}
}

func TestStripEmphasis(t *testing.T) {
	in := "Smith, <em>A Study</em> (Boston, 1999)."
	want := "Smith, A Study (Boston, 1999)."
	if got := StripEmphasis(in); got != want {
		t.Errorf("StripEmphasis = %q, want %q", got, want)
	}
}
