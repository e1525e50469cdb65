package citation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	leadingLabelRe = regexp.MustCompile(`^\s*\d+\.?\s*`)
	yearRe         = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	pageRe         = regexp.MustCompile(`\b(\d+(?:-\d+)?)\s*\.?\s*$`)
)

// Quote characters stripped from a candidate title, straight and curly.
const quoteRunes = "\"'“”‘’"

// Parse extracts citation fields from the free text of one endnote.
//
// It is an ordered sequence of independent extractors, each over the same
// working copy of the input: strip a leading numeric label, find a 4-digit
// year, find a trailing page number, then split on commas: segment 0 is
// taken as the author when it starts with an upper-case letter, segment 1
// as the title. Known limitation: on "Smith, John, A Study of Things"
// segment 1 is a first name, not a title, and the heuristic misfires; this
// matches the behavior the rest of the pipeline was calibrated against.
//
// Parse never fails. Worst case the result carries only RawText, which is
// always the original unstripped input.
func Parse(raw string) Fields {
	f := Fields{RawText: raw}

	work := strings.TrimSpace(leadingLabelRe.ReplaceAllString(raw, ""))

	if m := yearRe.FindString(work); m != "" {
		f.Year = m
	}

	if m := pageRe.FindStringSubmatch(work); m != nil {
		f.Page = m[1]
	}

	parts := strings.Split(work, ",")
	if len(parts) >= 2 {
		author := strings.TrimSpace(parts[0])
		if r, _ := utf8.DecodeRuneInString(author); author != "" && unicode.IsUpper(r) {
			f.Author = author
		}

		title := strings.Trim(strings.TrimSpace(parts[1]), quoteRunes)
		if title != "" {
			f.Title = title
		}
	}

	return f
}
