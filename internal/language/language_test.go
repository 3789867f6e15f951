package language

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		code     string
		wantCode string
		wantName string
		wantErr  bool
	}{
		{"en", "en", "English", false},
		{"de", "de", "German", false},
		{"zh-Hans", "zh-Hans", "Simplified Chinese", false},
		{"pt-BR", "pt-BR", "Brazilian Portuguese", false},
		{" fr ", "fr", "French", false},
		{"", "", "", true},
		{"not-a-lang-code!", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := Resolve(tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
		})
	}
}

func TestNameFallsBackToRawCode(t *testing.T) {
	if got := Name("???"); got != "???" {
		t.Errorf("Name(???) = %q, want raw code back", got)
	}
	if got := Name("ja"); got != "Japanese" {
		t.Errorf("Name(ja) = %q, want Japanese", got)
	}
}
