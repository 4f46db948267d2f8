package autoclose

import "testing"

func TestCloseInline(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"bold", "**bold", "**bold**"},
		{"italic", "*italic", "*italic*"},
		{"code", "`code", "`code`"},
		{"strikethrough", "~~strike", "~~strike~~"},
		{"bold italic", "***both", "***both***"},
		{"closed pair ignored", "**a** and *b", "**a** and *b*"},
		{"partial bold closer", "**bold*", "**bold**"},
		{"partial triple closer", "***both*", "***both***"},
		{"triple with bold closed", "***both**", "***both***"},
		{"nested closes innermost first", "**bold ~~strike", "**bold ~~strike~~**"},
		{"code inside bold", "**bold `code", "**bold `code`**"},
		{"code keeps trailing spaces", "`code   ", "`code   `"},
		{"trailing spaces trimmed", "**bold   ", "**bold**"},
		{"double backtick span", "``a ` b", "``a ` b``"},
		{"closer would merge with backticks", "`a``", "`a`` `"},
		{"text before marker", "some text with **strong", "some text with **strong**"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CloseInline(tt.line); got != tt.want {
				t.Fatalf("CloseInline(%q)=%q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestCloseInlineLeavesBalancedLinesAlone(t *testing.T) {
	lines := []string{
		"",
		"plain text",
		"**a** *b* `c` ~~d~~",
		"***both***",
		"* list item",
		"- list item with *emphasis*",
		"hello **",
		"2 * 3 = 6",
		`\*not italic`,
		"***",
		"``",
		"`**not bold**`",
		"~~~",
		"a ~ b ~~~ c",
		"*a *",
	}

	for _, line := range lines {
		if got := CloseInline(line); got != line {
			t.Errorf("CloseInline(%q)=%q, want unchanged", line, got)
		}
	}
}

func TestCloseInlineIsIdempotent(t *testing.T) {
	lines := []string{
		"**bold", "*it", "`code ", "~~x", "***x*", "**a *b", "`a``", "*a *", "x **y ~~z `w",
		"**bold*", "a*b*c*d", "~~a **b~~ c",
	}
	for _, line := range lines {
		once := CloseInline(line)
		if twice := CloseInline(once); twice != once {
			t.Errorf("CloseInline not idempotent for %q: %q then %q", line, once, twice)
		}
	}
}
