package domain

import "testing"

func TestAPICredentials(t *testing.T) {
	tests := []struct {
		name    string
		creds   APICredentials
		wantKey bool
		wantURL bool
	}{
		{"valid", APICredentials{APIKey: "sk-test", APIURL: "https://api.openai.com/v1/chat/completions"}, true, true},
		{"empty key", APICredentials{APIURL: "https://x"}, false, true},
		{"placeholder key", APICredentials{APIKey: PlaceholderAPIKey, APIURL: "https://x"}, false, true},
		{"empty url", APICredentials{APIKey: "sk-test"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.HasKey(); got != tt.wantKey {
				t.Errorf("HasKey() = %v, want %v", got, tt.wantKey)
			}
			if got := tt.creds.HasURL(); got != tt.wantURL {
				t.Errorf("HasURL() = %v, want %v", got, tt.wantURL)
			}
		})
	}
}
