package emoji

import "github.com/samber/lo"

var glyphs = []string{
	"😀", "😂", "😎", "😍", "🤔", "👍", "❤️", "🎉", "🎈", "🎁",
	"🌟", "🔥", "💯", "✨", "✅", "😊", "👏", "🙌", "🥳",
}

// All returns a copy of the picker's emoji list in display order.
func All() []string {
	out := make([]string, len(glyphs))
	copy(out, glyphs)
	return out
}

// At returns the emoji at index i.
func At(i int) (string, bool) {
	if i < 0 || i >= len(glyphs) {
		return "", false
	}
	return glyphs[i], true
}

// Contains reports whether s is one of the picker's emoji.
func Contains(s string) bool {
	return lo.Contains(glyphs, s)
}

// Random picks an emoji uniformly.
func Random() string {
	return lo.Sample(glyphs)
}
