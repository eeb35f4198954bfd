package chunk

import "testing"

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want string
	}{
		{"empty defaults", "", "text"},
		{"whitespace defaults", "   ", "text"},
		{"known tag passes", "go", "go"},
		{"uppercase folds", "Go", "go"},
		{"js alias", "js", "javascript"},
		{"ts alias", "ts", "typescript"},
		{"py alias", "py", "python"},
		{"shell alias", "shell", "bash"},
		{"yml alias", "yml", "yaml"},
		{"golang alias", "golang", "go"},
		{"cpp literal", "c++", "cpp"},
		{"plaintext alias", "plaintext", "text"},
		{"unrecognized defaults", "brainfume", "text"},
		{"chatter defaults", "output of ls", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLanguage(tt.tag); got != tt.want {
				t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}
