package render

import (
	"fmt"
	"strings"

	"github.com/quartal/leadsheet/internal/models"
)

var barGlyphs = map[models.BarStyle]string{
	models.BarSingle:       "|",
	models.BarDouble:       "||",
	models.BarSectionOpen:  "||",
	models.BarSectionClose: "||",
	models.BarRepeatOpen:   "|:",
	models.BarRepeatClose:  ":|",
}

// BarGlyph returns the printable delimiter for a bar style.
func BarGlyph(s models.BarStyle) string {
	return barGlyphs[s]
}

// Text renders a song view as a monospaced plain-text lead sheet, the
// format served to MCP clients.
func Text(v *SongView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", v.Title)
	fmt.Fprintf(&b, "Key: %s  Time: %d/%d", v.Key, v.Time.Count, v.Time.Unit)
	if v.Feel != "" {
		fmt.Fprintf(&b, "  Feel: %s", v.Feel)
	}
	b.WriteString("\n")

	if v.RenderLeadsheet {
		for _, p := range v.Progressions {
			fmt.Fprintf(&b, "\n%s:\n", p.Name)
			for _, row := range p.Rows {
				b.WriteString("  ")
				for _, m := range row.Measures {
					b.WriteString(barGlyphs[m.StartBar])
					if m.StartNote != "" {
						fmt.Fprintf(&b, "(%s)", m.StartNote)
					}
					for _, c := range m.Cells {
						b.WriteString(" ")
						b.WriteString(cellText(c))
					}
					b.WriteString(" ")
				}
				b.WriteString(barGlyphs[row.EndBar])
				if row.EndNote != "" {
					fmt.Fprintf(&b, "(%s)", row.EndNote)
				}
				b.WriteString("\n")
			}
		}

		if len(v.Form) > 0 {
			b.WriteString("\nForm:\n")
			for _, sec := range v.Form {
				fmt.Fprintf(&b, "  %s", sec.Progression)
				if sec.Reps > 1 {
					fmt.Fprintf(&b, " x%d", sec.Reps)
				}
				if len(sec.Comment) > 0 {
					fmt.Fprintf(&b, " (%s)", strings.Join(sec.Comment, "; "))
				}
				if sec.LyricsHint != "" {
					fmt.Fprintf(&b, ": %s", sec.LyricsHint)
				}
				b.WriteString("\n")
			}
		}
	}

	if v.RenderLyrics && v.Lyrics != "" {
		fmt.Fprintf(&b, "\n%s\n", v.Lyrics)
	}

	return b.String()
}

func cellText(c Cell) string {
	if c.Kind == CellChord {
		s := c.Chord.String()
		if c.Optional {
			return "(" + s + ")"
		}
		return s
	}
	return c.Label()
}
