package render

// RootOption is one entry in the transposition choice menu.
type RootOption struct {
	Root     string `json:"root"`
	Selected bool   `json:"selected"`
}

// SelectableRoots pairs every selectable root with whether it is the
// current one, preserving input order. No transposition arithmetic
// happens here; chord rewriting is the data layer's job.
func SelectableRoots(all []string, current string) []RootOption {
	out := make([]RootOption, len(all))
	for i, r := range all {
		out[i] = RootOption{Root: r, Selected: r == current}
	}
	return out
}
