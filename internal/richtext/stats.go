package richtext

import "unicode/utf8"

// Stats summarises a diary text for the editor's counters.
type Stats struct {
	TotalLength    int  `json:"totalLength"`
	ActualLength   int  `json:"actualLength"`
	EmojiCount     int  `json:"emojiCount"`
	HasASCIIArt    bool `json:"hasAsciiArt"`
	HasDecorations bool `json:"hasDecorations"`
}

// Analyze computes Stats for text.
func Analyze(text string) Stats {
	return Stats{
		TotalLength:    utf8.RuneCountInString(text),
		ActualLength:   ActualLength(text),
		EmojiCount:     CountEmoji(text),
		HasASCIIArt:    ContainsASCIIArt(text),
		HasDecorations: HasDecorations(text),
	}
}
