package spotify

import "testing"

func TestCodeFromRedirect(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		want     string
		wantOK   bool
	}{
		{
			name:   "code first with trailing state",
			url:    "https://app/cb?code=ABC123&state=xyz",
			want:   "ABC123",
			wantOK: true,
		},
		{
			name:   "code only",
			url:    "https://app/cb?code=ABC123",
			want:   "ABC123",
			wantOK: true,
		},
		{
			name:   "no code parameter",
			url:    "https://app/cb?state=xyz",
			wantOK: false,
		},
		{
			name: "code not the first parameter",
			// Preserved limitation of the substring contract: only a
			// leading code parameter is found.
			url:    "https://app/cb?state=xyz&code=ABC",
			wantOK: false,
		},
		{
			name:   "no query string",
			url:    "https://app/cb",
			wantOK: false,
		},
		{
			name:   "empty string",
			url:    "",
			wantOK: false,
		},
		{
			name:   "callback path only",
			url:    "/callback?code=XYZ&state=1",
			want:   "XYZ",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CodeFromRedirect(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("CodeFromRedirect(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("CodeFromRedirect(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
