package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Reserved sentinel ids: the separator and continuation-separator
// placeholder notes the format keeps in every document. They carry no
// content and are never read or rewritten.
var reservedIDs = map[string]bool{"-1": true, "0": true}

// maxXMLDepth bounds element nesting while parsing (XML bomb defense).
const maxXMLDepth = 256

// Note is one endnote: its document-unique id and the concatenation of all
// its text-run contents in document order.
type Note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ExtractEndnotes parses the endnote storage part and returns the notes in
// document order, excluding reserved sentinel ids. A syntactically broken
// part is an error: partial extraction would silently drop notes.
func ExtractEndnotes(doc []byte) ([]Note, error) {
	decoder := xml.NewDecoder(bytes.NewReader(doc))

	var notes []Note
	var text strings.Builder
	var noteID string
	var inNote, inText bool
	depth := 0

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse endnote storage: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > maxXMLDepth {
				return nil, fmt.Errorf("xml nesting depth exceeds %d", maxXMLDepth)
			}
			switch t.Name.Local {
			case "endnote":
				id := ""
				for _, attr := range t.Attr {
					if attr.Name.Local == "id" {
						id = attr.Value
					}
				}
				if id != "" && !reservedIDs[id] {
					inNote = true
					noteID = id
					text.Reset()
				}
			case "t":
				if inNote {
					inText = true
				}
			}

		case xml.CharData:
			if inText {
				text.Write(t)
			}

		case xml.EndElement:
			depth--
			switch t.Name.Local {
			case "t":
				inText = false
			case "endnote":
				if inNote {
					notes = append(notes, Note{ID: noteID, Text: text.String()})
					inNote = false
				}
			}
		}
	}

	return notes, nil
}

var (
	endnoteRe = regexp.MustCompile(`(?s)<w:endnote\b[^>]*>.*?</w:endnote>`)
	idAttrRe  = regexp.MustCompile(`w:id="([^"]*)"`)
	textRunRe = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>.*?</w:t>`)
	openTagRe = regexp.MustCompile(`(?s)^<w:t(?:\s[^>]*)?>`)
)

// ApplyFormatted splices formatted text into the endnote storage part.
//
// For each endnote whose id appears in the mapping, every text run is
// cleared and the full replacement string is assigned to the first text-run
// slot. The rewrite is a targeted splice over the raw bytes: notes absent
// from the mapping, reserved sentinel notes, and all structural nodes are
// passed through byte for byte. Extracting again afterward yields exactly
// the supplied text for each rewritten note.
func ApplyFormatted(doc []byte, formatted map[string]string) []byte {
	out := endnoteRe.ReplaceAllStringFunc(string(doc), func(block string) string {
		m := idAttrRe.FindStringSubmatch(block)
		if m == nil {
			return block
		}
		id := m[1]
		text, ok := formatted[id]
		if !ok || reservedIDs[id] {
			return block
		}

		var esc bytes.Buffer
		xml.EscapeText(&esc, []byte(text))

		first := true
		return textRunRe.ReplaceAllStringFunc(block, func(run string) string {
			open := openTagRe.FindString(run)
			if first {
				first = false
				return open + esc.String() + "</w:t>"
			}
			return open + "</w:t>"
		})
	})
	return []byte(out)
}
