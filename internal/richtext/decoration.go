package richtext

import "strings"

// Decoration is the set of independent toolbar toggles applied to a piece of
// text. The zero value applies nothing.
type Decoration struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Color         string `json:"color,omitempty"`
	FontSize      string `json:"fontSize,omitempty"`
}

// IsZero reports whether d applies no decoration at all.
func (d Decoration) IsZero() bool {
	return d == Decoration{}
}

// Apply wraps text in the markup selected by d.
//
// WRAPPING ORDER (innermost first):
//
//	span(color; font-size) → <s> → <u> → <i> → <b>
//
// The order is fixed: stored entries were produced with it, and changing it
// would make identical decorations serialise differently.
//
//	Apply("X", Decoration{Bold: true, Italic: true, Color: "blue"})
//	→ <b><i><span style="color: blue;">X</span></i></b>
func Apply(text string, d Decoration) string {
	result := text

	if style := d.style(); style != "" {
		result = `<span style="` + style + `">` + result + `</span>`
	}
	if d.Strikethrough {
		result = wrap("s", result)
	}
	if d.Underline {
		result = wrap("u", result)
	}
	if d.Italic {
		result = wrap("i", result)
	}
	if d.Bold {
		result = wrap("b", result)
	}

	return result
}

// style builds the inline style for the color/size span, or "" when neither
// is set. Declarations are joined by "; " and terminated with ";".
func (d Decoration) style() string {
	var parts []string
	if d.Color != "" {
		parts = append(parts, "color: "+d.Color)
	}
	if d.FontSize != "" {
		parts = append(parts, "font-size: "+d.FontSize)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + ";"
}

func wrap(tag, inner string) string {
	return "<" + tag + ">" + inner + "</" + tag + ">"
}
