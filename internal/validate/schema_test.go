package validate

import (
	"strings"
	"testing"
)

func TestSchema(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		valid   bool
		wantErr string
	}{
		{
			name:  "minimal valid document",
			data:  `{"strings": {}}`,
			valid: true,
		},
		{
			name: "full valid document",
			data: `{
				"sourceLanguage": "en",
				"strings": {
					"greeting": {
						"localizations": {
							"en": {"stringUnit": {"state": "translated", "value": "Hello"}}
						},
						"variations": {
							"wide": {
								"device": "ipad",
								"localizations": {
									"en": {"stringUnit": {"state": "translated", "value": "Hello there"}}
								}
							}
						}
					}
				}
			}`,
			valid: true,
		},
		{
			name:    "invalid json",
			data:    `{`,
			valid:   false,
			wantErr: "not valid JSON",
		},
		{
			name:    "array root",
			data:    `[]`,
			valid:   false,
			wantErr: "root is not an object",
		},
		{
			name:    "missing strings",
			data:    `{"sourceLanguage": "en"}`,
			valid:   false,
			wantErr: `"strings"`,
		},
		{
			name:    "entry not an object",
			data:    `{"strings": {"bad": 42}}`,
			valid:   false,
			wantErr: `entry "bad"`,
		},
		{
			name:    "localization not an object",
			data:    `{"strings": {"k": {"localizations": {"en": "nope"}}}}`,
			valid:   false,
			wantErr: `localization "en"`,
		},
		{
			name:    "string unit without value",
			data:    `{"strings": {"k": {"localizations": {"en": {"stringUnit": {"state": "new"}}}}}}`,
			valid:   false,
			wantErr: "no string value",
		},
		{
			name:    "variant string unit malformed",
			data:    `{"strings": {"k": {"variations": {"v": {"localizations": {"en": {"stringUnit": {"value": 7}}}}}}}}`,
			valid:   false,
			wantErr: `variant "v"`,
		},
		{
			name:  "localization without string unit is allowed",
			data:  `{"strings": {"k": {"localizations": {"en": {}}}}}`,
			valid: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := Schema([]byte(tt.data))
			if valid != tt.valid {
				t.Fatalf("valid = %v, want %v (errs: %v)", valid, tt.valid, errs)
			}
			if tt.wantErr == "" {
				return
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error mentioning %q in %v", tt.wantErr, errs)
			}
		})
	}
}
