package richtext

import "regexp"

var (
	mdBold   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	mdItalic = regexp.MustCompile(`\*(.*?)\*`)
	mdStrike = regexp.MustCompile(`~~(.*?)~~`)
)

// ParseMarkdown converts the three inline markdown forms the editor accepts
// into decoration tags: **bold**, *italic* and ~~strike~~. Bold runs first so
// that its asterisks are consumed before the italic pass.
func ParseMarkdown(text string) string {
	result := mdBold.ReplaceAllString(text, "<b>$1</b>")
	result = mdItalic.ReplaceAllString(result, "<i>$1</i>")
	result = mdStrike.ReplaceAllString(result, "<s>$1</s>")
	return result
}
