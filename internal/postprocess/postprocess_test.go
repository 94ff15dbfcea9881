package postprocess

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "你好。", "你好。"},
		{"trims whitespace", "  你好。\n", "你好。"},
		{"thinking block", "<think>the user wants…</think>你好。", "你好。"},
		{"truncated thinking", "你好。<thinking>and then", "你好。"},
		{"echo prefix", "Here is the translation: 你好。", "你好。"},
		{"echo prefix variant", "Translation: 你好。", "你好。"},
		{"wrapped quotes", `"你好。"`, "你好。"},
		{"curly quotes", "“你好。”", "你好。"},
		{"inner quotes kept", `他說"好"了`, `他說"好"了`},
		{"colon in dialogue kept", "約翰: 你好。", "約翰: 你好。"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
