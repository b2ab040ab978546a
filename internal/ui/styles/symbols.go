package styles

// Symbols used by the picker
const (
	Pointer  = "›"
	Check    = "✓"
	Cross    = "✕"
	Bullet   = "•"
	TabArrow = "→"
)

// Highlight renders s with the runes at the given indexes highlighted.
// Indexes are rune offsets, as returned by fuzzy matching.
func Highlight(s string, matched []int, base func(string) string) string {
	if len(matched) == 0 {
		return base(s)
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	var out, run []rune
	flush := func(highlighted bool) {
		if len(run) == 0 {
			return
		}
		if highlighted {
			out = append(out, []rune(HighlightStyle.Render(string(run)))...)
		} else {
			out = append(out, []rune(base(string(run)))...)
		}
		run = run[:0]
	}
	inHit := false
	for i, r := range []rune(s) {
		if hit[i] != inHit {
			flush(inHit)
			inHit = hit[i]
		}
		run = append(run, r)
	}
	flush(inHit)
	return string(out)
}
