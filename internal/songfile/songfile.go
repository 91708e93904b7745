// Package songfile parses YAML song files into domain models.
package songfile

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/quartal/leadsheet/internal/models"
	"github.com/quartal/leadsheet/internal/music"
)

const hintLength = 50

type rawSong struct {
	Title        string               `yaml:"title"`
	Key          string               `yaml:"key"`
	Time         models.TimeSignature `yaml:"time"`
	Feel         string               `yaml:"feel"`
	Progressions []map[string]string  `yaml:"progressions"`
	Form         []rawSection         `yaml:"form"`
}

type rawSection struct {
	Progression  string   `yaml:"progression"`
	Reps         int      `yaml:"reps"`
	Comment      []string `yaml:"comment"`
	Lyrics       string   `yaml:"lyrics"`
	Continuation bool     `yaml:"continuation"`
}

func (r *rawSong) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Key, validation.Required),
		validation.Field(&r.Progressions, validation.Required),
	)
}

func (r *rawSection) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Progression, validation.Required),
		validation.Field(&r.Reps, validation.Min(0)),
	)
}

// Parse parses raw song file bytes. The returned song is fully validated:
// the key and every chord symbol parse, the time signature is sane, and
// every form section references a defined progression.
func Parse(data []byte) (*models.Song, error) {
	var raw rawSong
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("songfile: parse yaml: %w", err)
	}
	if err := raw.validate(); err != nil {
		return nil, fmt.Errorf("songfile: %w", err)
	}

	key, err := music.ParseKey(raw.Key)
	if err != nil {
		return nil, fmt.Errorf("songfile: key: %w", err)
	}

	// Time defaults to 4/4 when omitted.
	if raw.Time.Count == 0 && raw.Time.Unit == 0 {
		raw.Time = models.TimeSignature{Count: 4, Unit: 4}
	}
	if raw.Time.Count < 1 || raw.Time.Unit < 1 {
		return nil, fmt.Errorf("songfile: invalid time signature %d/%d", raw.Time.Count, raw.Time.Unit)
	}

	song := &models.Song{
		Title:     raw.Title,
		SortTitle: SortTitle(raw.Title),
		Key:       key,
		Time:      raw.Time,
		Feel:      raw.Feel,
	}

	for i, entry := range raw.Progressions {
		if len(entry) != 1 {
			return nil, fmt.Errorf("songfile: progression entry %d must have exactly one name", i)
		}
		for name, dsl := range entry {
			events, err := ParseProgression(dsl)
			if err != nil {
				return nil, fmt.Errorf("songfile: progression %q: %w", name, err)
			}
			song.Progressions = append(song.Progressions, models.Progression{
				Name:   name,
				Events: events,
			})
		}
	}

	for i, sec := range raw.Form {
		if err := sec.validate(); err != nil {
			return nil, fmt.Errorf("songfile: form section %d: %w", i, err)
		}
		if _, ok := song.ProgressionByName(sec.Progression); !ok {
			return nil, fmt.Errorf("songfile: form section %d references unknown progression %q", i, sec.Progression)
		}
		lyrics := strings.TrimRight(sec.Lyrics, "\n")
		song.Form = append(song.Form, models.FormSection{
			Progression:  sec.Progression,
			Reps:         sec.Reps,
			Comment:      sec.Comment,
			Lyrics:       lyrics,
			LyricsHint:   lyricsHint(lyrics),
			Continuation: sec.Continuation,
		})
	}

	return song, nil
}

// Title extracts just the title field, for listings that do not need a
// full parse.
func Title(data []byte) (string, error) {
	var raw struct {
		Title string `yaml:"title"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return "", fmt.Errorf("songfile: parse yaml: %w", err)
	}
	return raw.Title, nil
}

// SortTitle strips a leading "The " so songs sort by their real name.
func SortTitle(title string) string {
	words := strings.Fields(title)
	if len(words) > 1 && strings.EqualFold(words[0], "the") {
		return strings.Join(words[1:], " ")
	}
	return title
}

// lyricsHint is the shortened first lyric line shown in the song form
// listing.
func lyricsHint(lyrics string) string {
	if lyrics == "" {
		return ""
	}
	first, _, _ := strings.Cut(lyrics, "\n")
	if len(first) > hintLength {
		first = first[:hintLength]
	}
	return first + "..."
}
