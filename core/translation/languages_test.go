package translation

import "testing"

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ja", "ja"},
		{"KO", "ko"},
		{" fr ", "fr"},
		{"zh-Hant-TW", "zh_Hant_TW"},
		{"zh_hans_cn", "zh_Hans_CN"},
		{"", "ja"},
		{"xx", "ja"},
		{"english", "ja"},
	}

	for _, tt := range tests {
		if got := NormalizeLanguage(tt.in); got != tt.want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
