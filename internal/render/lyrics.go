package render

import (
	"strings"

	"github.com/quartal/leadsheet/internal/models"
)

// Break tokens in the assembled lyric stream. A continuation section gets
// a line break; a new stanza gets a blank line between it and the
// previous one.
const (
	lineBreak   = "\n"
	stanzaBreak = "\n\n"
)

// AssembleLyrics walks the form sections in order and concatenates each
// section's lyric fragment into one continuous stream. Sections without
// lyrics are skipped entirely: the break decision looks at the most
// recently emitted section, not the immediately preceding one in form
// order. Lyric content is trusted text and is passed through verbatim.
func AssembleLyrics(sections []models.FormSection) string {
	var b strings.Builder
	emitted := false
	for _, sec := range sections {
		if sec.Lyrics == "" {
			continue
		}
		if emitted {
			if sec.Continuation {
				b.WriteString(lineBreak)
			} else {
				b.WriteString(stanzaBreak)
			}
		}
		b.WriteString(sec.Lyrics)
		emitted = true
	}
	return b.String()
}
