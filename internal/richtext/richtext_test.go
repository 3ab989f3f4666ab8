package richtext

import (
	"strings"
	"testing"
)

// =========================================================================
// LENGTH RULES
// =========================================================================

func TestIsValidWithin(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want bool
	}{
		{name: "empty", text: "", max: MaxLength, want: false},
		{name: "whitespace only", text: "   ", max: MaxLength, want: false},
		{name: "ideographic space only", text: "　　", max: MaxLength, want: false},
		{name: "single char", text: "a", max: MaxLength, want: true},
		{name: "exactly 140", text: strings.Repeat("a", 140), max: MaxLength, want: true},
		{name: "141 chars", text: strings.Repeat("a", 141), max: MaxLength, want: false},
		{name: "surrounding spaces not counted", text: "  " + strings.Repeat("a", 140) + "  ", max: MaxLength, want: true},
		{name: "custom limit too short", text: "test", max: 3, want: false},
		{name: "custom limit exact", text: "test", max: 4, want: true},
		{name: "custom limit roomy", text: "test", max: 5, want: true},
		{name: "140 multibyte chars", text: strings.Repeat("日", 140), max: MaxLength, want: true},
		{name: "141 multibyte chars", text: strings.Repeat("日", 141), max: MaxLength, want: false},
		{name: "markup counts toward limit", text: "<b>" + strings.Repeat("a", 135) + "</b>", max: MaxLength, want: false},
		{name: "decorated text within limit", text: `<span style="color: red;">赤色テスト</span>`, max: MaxLength, want: true},
		{name: "kaomoji", text: "今日は嬉しい ٩(◕‿◕)۶", max: MaxLength, want: true},
		{name: "emoji mix", text: "<b>今日は</b>とても<i>楽しかった</i>😀🎉", max: MaxLength, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidWithin(tt.text, tt.max); got != tt.want {
				t.Errorf("IsValidWithin(%q, %d) = %v, want %v", tt.text, tt.max, got, tt.want)
			}
		})
	}
}

func TestIsValid_UsesDefaultLimit(t *testing.T) {
	if !IsValid(strings.Repeat("a", MaxLength)) {
		t.Error("IsValid() rejected text at the default limit")
	}
	if IsValid(strings.Repeat("a", MaxLength+1)) {
		t.Error("IsValid() accepted text over the default limit")
	}
}

func TestActualLength(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "<b>ab</b>", want: 2},
		{text: "plain", want: 5},
		{text: `<b><i><span style="color: blue;">X</span></i></b>`, want: 1},
		{text: "日記<u>です</u>", want: 4},
		{text: "a < b", want: 5},
		{text: "", want: 0},
	}

	for _, tt := range tests {
		if got := ActualLength(tt.text); got != tt.want {
			t.Errorf("ActualLength(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestIsDecoratedValid(t *testing.T) {
	decorated := "<b>" + strings.Repeat("a", 140) + "</b>"
	if IsValid(decorated) {
		t.Error("raw rule should reject 147-character decorated text")
	}
	if !IsDecoratedValid(decorated, MaxLength) {
		t.Error("actual-length rule should accept 140 visible characters")
	}
	if IsDecoratedValid("   ", MaxLength) {
		t.Error("IsDecoratedValid accepted whitespace")
	}
}

// =========================================================================
// DECORATION
// =========================================================================

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		d    Decoration
		want string
	}{
		{
			name: "no options",
			d:    Decoration{},
			want: "X",
		},
		{
			name: "bold italic color",
			d:    Decoration{Bold: true, Italic: true, Color: "blue"},
			want: `<b><i><span style="color: blue;">X</span></i></b>`,
		},
		{
			name: "color and size share one span",
			d:    Decoration{Color: "red", FontSize: "large"},
			want: `<span style="color: red; font-size: large;">X</span>`,
		},
		{
			name: "size only",
			d:    Decoration{FontSize: "small"},
			want: `<span style="font-size: small;">X</span>`,
		},
		{
			name: "all toggles in canonical order",
			d:    Decoration{Bold: true, Italic: true, Underline: true, Strikethrough: true, Color: "green"},
			want: `<b><i><u><s><span style="color: green;">X</span></s></u></i></b>`,
		},
		{
			name: "underline and strike",
			d:    Decoration{Underline: true, Strikethrough: true},
			want: "<u><s>X</s></u>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply("X", tt.d); got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecorationIsZero(t *testing.T) {
	if !(Decoration{}).IsZero() {
		t.Error("zero Decoration should report IsZero")
	}
	if (Decoration{Bold: true}).IsZero() {
		t.Error("bold Decoration should not report IsZero")
	}
}

// =========================================================================
// EMOJI, KAOMOJI, SHORTCODES
// =========================================================================

func TestCountEmoji(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "plain text", want: 0},
		{text: "今日は楽しかった😀😃😄", want: 3},
		{text: "晴れ☀️のち雨☔時々曇り☁️", want: 3}, // variation selectors are not counted
		{text: "\U0001F697\u2708\U0001F1EF\U0001F1F5", want: 4}, // a flag is two regional indicators
		{text: "\U0001F44D\U0001F3FD", want: 2},                 // skin tone modifier counts on its own
	}

	for _, tt := range tests {
		if got := CountEmoji(tt.text); got != tt.want {
			t.Errorf("CountEmoji(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestContainsASCIIArt(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "٩(◕‿◕)۶", want: true},
		{text: "クール (⌐■_■) な一日でした", want: true},
		{text: "＼(＾o＾)／", want: true},
		{text: "┌∩┐", want: true},
		{text: "plain text", want: false},
		{text: "(just parentheses_and_underscores)", want: false},
		{text: "(o_o)", want: false},
		{text: "", want: false},
	}

	for _, tt := range tests {
		if got := ContainsASCIIArt(tt.text); got != tt.want {
			t.Errorf("ContainsASCIIArt(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestExpandShortcodes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "two known tokens", text: "today :sun: and :smile:", want: "today ☀️ and 😊"},
		{name: "unknown token untouched", text: "what :xyz: is", want: "what :xyz: is"},
		{name: "repeated token", text: ":fire::fire:", want: "🔥🔥"},
		{name: "not word-boundary aware", text: "x:coffee:y", want: "x☕y"},
		{name: "no colon", text: "nothing here", want: "nothing here"},
		{name: "similar prefix", text: ":sunny:", want: "☀️"},
		{name: "shared colon goes to the leftmost token", text: ":sun:smile:", want: "☀️smile:"},
		{name: "leftmost wins regardless of table order", text: ":smile:sun:", want: "😊sun:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandShortcodes(tt.text); got != tt.want {
				t.Errorf("ExpandShortcodes(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestShortcodes_ReturnsCopy(t *testing.T) {
	table := Shortcodes()
	if table[":smile:"] != "😊" {
		t.Fatalf(":smile: = %q, want 😊", table[":smile:"])
	}
	table[":smile:"] = "changed"
	if ExpandShortcodes(":smile:") != "😊" {
		t.Error("mutating the returned map changed expansion")
	}
}

// =========================================================================
// MARKDOWN AND STATS
// =========================================================================

func TestParseMarkdown(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "**太字テスト**", want: "<b>太字テスト</b>"},
		{text: "*斜体テスト*", want: "<i>斜体テスト</i>"},
		{text: "~~取り消し線テスト~~", want: "<s>取り消し線テスト</s>"},
		{text: "**a** and *b*", want: "<b>a</b> and <i>b</i>"},
		{text: "no markup", want: "no markup"},
	}

	for _, tt := range tests {
		if got := ParseMarkdown(tt.text); got != tt.want {
			t.Errorf("ParseMarkdown(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	got := Analyze("<b>晴れ</b>😀 ٩(◕‿◕)۶")
	want := Stats{
		TotalLength:    18,
		ActualLength:   11,
		EmojiCount:     1,
		HasASCIIArt:    true,
		HasDecorations: true,
	}
	if got != want {
		t.Errorf("Analyze() = %+v, want %+v", got, want)
	}
}
