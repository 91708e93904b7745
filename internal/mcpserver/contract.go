package mcpserver

// SongFormatContract describes the canonical YAML song format that
// LLM consumers should follow when creating or editing song files.
const SongFormatContract = `# Song File Format Contract

Every song stored in the songbook MUST follow this structure.

## Structure

` + "```" + `yaml
title: Song Title                   # REQUIRED - display name everywhere
key: Eb-                            # REQUIRED - root + optional "-" for minor
time:                               # OPTIONAL - defaults to 4/4
  count: 3
  unit: 4
feel: swing                         # OPTIONAL - free text
progressions:                       # REQUIRED - named, order preserved
  - intro: "{[C-7:1m][F7:1m]}"
  - verse: "[Bb^7:2b][Eb7:2b] [Ab^7:1m] /"
form:                               # OPTIONAL - sections referencing progressions
  - progression: intro
    reps: 2
    comment:
      - horns tacet first time
  - progression: verse
    lyrics: |
      First line of the verse
      second line of the verse
  - progression: verse
    continuation: true              # lyric stanza continues the previous one
    lyrics: |
      more words
` + "```" + `

## Progression notation

1. **Chords** are bracketed: ` + "`" + `[Root+quality:durations]` + "`" + `.
   - Root: A-G with optional ` + "`" + `b` + "`" + ` or ` + "`" + `#` + "`" + ` (e.g. ` + "`" + `Bb` + "`" + `, ` + "`" + `F#` + "`" + `).
   - Quality: any suffix (` + "`" + `-7` + "`" + `, ` + "`" + `^7` + "`" + `, ` + "`" + `7b9` + "`" + `, ` + "`" + `sus4` + "`" + `). A slash bass is allowed: ` + "`" + `C-7/Bb` + "`" + `.
   - Durations after ` + "`" + `:` + "`" + ` are one or more of ` + "`" + `<n>m` + "`" + ` (measures), ` + "`" + `<n>b` + "`" + ` (beats),
     ` + "`" + `<n>h` + "`" + ` (half-beats), concatenated: ` + "`" + `[C7:1m2b]` + "`" + `. Omitted durations mean one measure.
   - ` + "`" + `[rest:2b]` + "`" + ` marks silence. A trailing ` + "`" + `?` + "`" + ` before ` + "`" + `:` + "`" + ` marks the chord optional.
2. **Repeats** wrap a passage in braces: ` + "`" + `{[C7:1m][F7:1m]}` + "`" + `. Text before the
   first bracket becomes the repeat note: ` + "`" + `{3x [C7:1m]}` + "`" + `.
3. **Sections** wrap a passage in parentheses: ` + "`" + `(A [C7:1m][F7:1m])` + "`" + `. Text
   before the first bracket is the section label.
4. **Row breaks** are a bare ` + "`" + `/` + "`" + ` between chords.
5. Groups do not nest.

## Rules

1. **File paths** end with ` + "`" + `.yaml` + "`" + ` or ` + "`" + `.yml` + "`" + ` and use forward slashes.
2. **Every form section** must reference a progression name defined above it.
3. **Lyrics** are plain text; blank lines inside one section are preserved.
   Use ` + "`" + `continuation: true` + "`" + ` when a stanza carries over from the previous
   section instead of starting a new one.
4. **Encoding** is UTF-8. Write accidentals as ASCII ` + "`" + `b` + "`" + `/` + "`" + `#` + "`" + `; rendering
   converts them to flat and sharp signs.
`
