package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file \n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("writing empty file: %v", err)
	}

	t.Setenv("ATS_TEST_KEY", "from-env")
	t.Setenv("ATS_TEST_PLACEHOLDER", "your_gemini_api_key_here")

	placeholders := []string{"your_gemini_api_key_here"}

	tests := []struct {
		name      string
		src       Source
		expect    string
		notConfig bool
		wantErr   bool
	}{
		{name: "file wins", src: Source{File: keyFile, Env: "ATS_TEST_KEY", Value: "inline"}, expect: "from-file"},
		{name: "env beats inline", src: Source{Env: "ATS_TEST_KEY", Value: "inline"}, expect: "from-env"},
		{name: "inline", src: Source{Value: " inline "}, expect: "inline"},
		{name: "unset env falls through", src: Source{Env: "ATS_TEST_UNSET", Value: "inline"}, expect: "inline"},
		{
			name:      "placeholder env ignored",
			src:       Source{Env: "ATS_TEST_PLACEHOLDER", Placeholders: placeholders},
			notConfig: true,
		},
		{
			name:      "placeholder inline ignored",
			src:       Source{Value: "YOUR_GEMINI_API_KEY_HERE", Placeholders: placeholders},
			notConfig: true,
		},
		{name: "nothing configured", src: Source{Name: "gemini api key"}, notConfig: true},
		{name: "empty file", src: Source{File: emptyFile}, notConfig: true},
		{name: "missing file", src: Source{File: filepath.Join(dir, "missing")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)

			switch {
			case tt.notConfig:
				if !errors.Is(err, ErrNotConfigured) {
					t.Fatalf("expected ErrNotConfigured, got %v", err)
				}
			case tt.wantErr:
				if err == nil || errors.Is(err, ErrNotConfigured) {
					t.Fatalf("expected read error, got %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.expect {
					t.Fatalf("expected %q, got %q", tt.expect, got)
				}
			}
		})
	}
}
