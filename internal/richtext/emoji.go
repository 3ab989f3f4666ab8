package richtext

import (
	"maps"
	"slices"
	"strings"
	"unicode"
)

// emojiRanges are the Unicode blocks counted as emoji. Each code point is
// counted on its own: skin-tone modifiers and ZWJ sequences are not merged.
var emojiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x26FF, Stride: 1}, // Miscellaneous Symbols
		{Lo: 0x2700, Hi: 0x27BF, Stride: 1}, // Dingbats
	},
	R32: []unicode.Range32{
		{Lo: 0x1F1E0, Hi: 0x1F1FF, Stride: 1}, // Regional Indicators
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1}, // Symbols and Pictographs
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1}, // Emoticons
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1}, // Transport and Map
	},
}

// asciiArtMarkers are glyphs that almost only show up inside kaomoji such as
// ٩(◕‿◕)۶, (⌐■_■) or ＼(＾o＾)／.
const asciiArtMarkers = "٩۶⌐■◕‿＼／＾┌∩┐"

// CountEmoji returns the number of code points in text that fall in one of
// the emoji blocks.
func CountEmoji(text string) int {
	n := 0
	for _, r := range text {
		if unicode.Is(emojiRanges, r) {
			n++
		}
	}
	return n
}

// ContainsASCIIArt reports whether text contains any kaomoji marker glyph.
// It is a membership test, not art recognition.
func ContainsASCIIArt(text string) bool {
	return strings.ContainsAny(text, asciiArtMarkers)
}

// shortcodes maps :name: tokens to the emoji the toolbar inserts for them.
var shortcodes = map[string]string{
	// emotions
	":smile:":     "😊",
	":happy:":     "😀",
	":sad:":       "😢",
	":angry:":     "😠",
	":surprised:": "😲",
	":laugh:":     "😂",
	":cry:":       "😭",
	":love:":      "😍",
	":wink:":      "😉",
	":cool:":      "😎",

	// weather
	":sun:":     "☀️",
	":sunny:":   "☀️",
	":cloudy:":  "☁️",
	":rain:":    "☔",
	":rainy:":   "☔",
	":snow:":    "❄️",
	":snowy:":   "❄️",
	":thunder:": "⚡",

	// misc
	":heart:":      "❤️",
	":star:":       "⭐",
	":fire:":       "🔥",
	":wave:":       "👋",
	":thumbsup:":   "👍",
	":thumbsdown:": "👎",
	":party:":      "🎉",
	":gift:":       "🎁",

	// activities
	":work:":     "💼",
	":study:":    "📚",
	":sports:":   "⚽",
	":music:":    "🎵",
	":camera:":   "📸",
	":phone:":    "📱",
	":computer:": "💻",
	":book:":     "📖",

	// food
	":coffee:": "☕",
	":cake:":   "🍰",
	":pizza:":  "🍕",
	":apple:":  "🍎",
	":burger:": "🍔",
	":sushi:":  "🍣",
	":beer:":   "🍺",
	":wine:":   "🍷",

	// vehicles
	":car:":   "🚗",
	":train:": "🚄",
	":plane:": "✈️",
	":bike:":  "🚲",
	":bus:":   "🚌",
	":ship:":  "🚢",

	// nature
	":flower:":   "🌸",
	":tree:":     "🌳",
	":mountain:": "🏔️",
	":ocean:":    "🌊",
	":moon:":     "🌙",
	":rainbow:":  "🌈",
}

// shortcodeReplacer is built from the table in sorted key order so the
// result never depends on map iteration order. A Replacer is safe for
// concurrent use.
var shortcodeReplacer = func() *strings.Replacer {
	keys := slices.Sorted(maps.Keys(shortcodes))
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, shortcodes[k])
	}
	return strings.NewReplacer(pairs...)
}()

// ExpandShortcodes replaces every known :name: token in text with its emoji.
// Matching is literal substring replacement; unknown tokens are left as is.
// Tokens are matched left to right without overlap, so in ":sun:smile:" the
// shared colon belongs to :sun: and "smile:" stays literal.
func ExpandShortcodes(text string) string {
	if !strings.Contains(text, ":") {
		return text
	}
	return shortcodeReplacer.Replace(text)
}

// Shortcodes returns a copy of the shortcode table.
func Shortcodes() map[string]string {
	return maps.Clone(shortcodes)
}
