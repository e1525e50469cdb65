package citation

import "strings"

// Emphasis markers annotate the work title in rendered output. They are a
// structural annotation, not HTML: the container rewrite step strips them
// because the destination format carries no inline emphasis here.
const (
	emphOpen  = "<em>"
	emphClose = "</em>"
)

func emph(s string) string { return emphOpen + s + emphClose }

// StripEmphasis removes the title emphasis markers from a rendered citation.
func StripEmphasis(s string) string {
	s = strings.ReplaceAll(s, emphOpen, "")
	return strings.ReplaceAll(s, emphClose, "")
}

// Render formats fields according to the requested style. Unknown styles
// fall back to chicago. Render never fails: absent fields omit their
// punctuation and segments instead of leaving dangling separators. The one
// exception is bluebook, where a missing title renders as the literal
// placeholder UNTITLED.
func Render(f Fields, style Style) string {
	switch style {
	case StyleMLA:
		return renderMLA(f)
	case StyleAPA:
		return renderAPA(f)
	case StyleBluebook:
		return renderBluebook(f)
	default:
		return renderChicago(f)
	}
}

// renderChicago produces `Author, Title (Place: Publisher, Year), Page.`
func renderChicago(f Fields) string {
	var sb strings.Builder

	if f.Author != "" {
		sb.WriteString(f.Author)
	}
	if f.Title != "" {
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(emph(f.Title))
	}

	if f.Place != "" || f.Publisher != "" || f.Year != "" {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("(")
		if f.Place != "" {
			sb.WriteString(f.Place)
			if f.Publisher != "" || f.Year != "" {
				sb.WriteString(": ")
			}
		}
		if f.Publisher != "" {
			sb.WriteString(f.Publisher)
			if f.Year != "" {
				sb.WriteString(", ")
			}
		}
		sb.WriteString(f.Year)
		sb.WriteString(")")
	}

	if f.Page != "" {
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Page)
	}

	sb.WriteString(".")
	return sb.String()
}

// renderMLA produces `Last, First. Title. Publisher, Year, pp. Page.`
func renderMLA(f Fields) string {
	var sb strings.Builder

	if a := invertName(f.Author); a != "" {
		sb.WriteString(a)
	}
	if f.Title != "" {
		if sb.Len() > 0 {
			sb.WriteString(". ")
		}
		sb.WriteString(emph(f.Title))
	}
	if f.Publisher != "" {
		if sb.Len() > 0 {
			sb.WriteString(". ")
		}
		sb.WriteString(f.Publisher)
	}
	if f.Year != "" {
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Year)
	}
	if f.Page != "" {
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("pp. ")
		sb.WriteString(f.Page)
	}

	sb.WriteString(".")
	return sb.String()
}

// renderAPA produces `Last, F. M. (Year). Title. Place: Publisher, pp. Page.`
func renderAPA(f Fields) string {
	var sb strings.Builder

	if a := initialName(f.Author); a != "" {
		sb.WriteString(a)
	}
	if f.Year != "" {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("(")
		sb.WriteString(f.Year)
		sb.WriteString(").")
	}
	if f.Title != "" {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(emph(f.Title))
	}

	pub := f.Publisher
	if f.Place != "" && f.Publisher != "" {
		pub = f.Place + ": " + f.Publisher
	}
	if pub != "" {
		switch {
		case sb.Len() == 0:
		case strings.HasSuffix(sb.String(), "."):
			sb.WriteString(" ")
		default:
			sb.WriteString(". ")
		}
		sb.WriteString(pub)
	}

	if f.Page != "" {
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("pp. ")
		sb.WriteString(f.Page)
	}

	out := sb.String()
	if !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}

// renderBluebook produces `Author, TITLE Page (Publisher Year).` with the
// title upper-cased, never emphasis-marked, and UNTITLED when absent.
func renderBluebook(f Fields) string {
	var sb strings.Builder

	if f.Author != "" {
		sb.WriteString(f.Author)
		sb.WriteString(", ")
	}

	if f.Title != "" {
		sb.WriteString(strings.ToUpper(f.Title))
	} else {
		sb.WriteString("UNTITLED")
	}

	if f.Page != "" {
		sb.WriteString(" ")
		sb.WriteString(f.Page)
	}

	if f.Publisher != "" || f.Year != "" {
		sb.WriteString(" (")
		sb.WriteString(f.Publisher)
		if f.Publisher != "" && f.Year != "" {
			sb.WriteString(" ")
		}
		sb.WriteString(f.Year)
		sb.WriteString(")")
	}

	sb.WriteString(".")
	return sb.String()
}

// invertName rewrites "First Middle Last" as "Last, First Middle".
// Single-token names pass through unchanged.
func invertName(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name
	}
	last := parts[len(parts)-1]
	return last + ", " + strings.Join(parts[:len(parts)-1], " ")
}

// initialName reduces "First Middle Last" to "Last, F. M.".
// Single-token names pass through unchanged.
func initialName(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name
	}
	initials := make([]string, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		initials = append(initials, string([]rune(p)[:1]))
	}
	return parts[len(parts)-1] + ", " + strings.Join(initials, ". ") + "."
}
