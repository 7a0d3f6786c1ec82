package browser

import (
	"errors"
	"testing"
)

func stubLauncher(t *testing.T) *[]string {
	t.Helper()
	var opened []string
	prev := Launcher
	Launcher = func(u string) error {
		opened = append(opened, u)
		return nil
	}
	t.Cleanup(func() { Launcher = prev })
	return &opened
}

func TestOpenRejectsNonHTTP(t *testing.T) {
	opened := stubLauncher(t)

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://punchng.com/gunmen-abduct", false},
		{"http://example.com", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"https://", true},
		{"", true},
	}

	for _, tt := range tests {
		err := Open(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("Open(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
	if len(*opened) != 2 {
		t.Errorf("expected only the 2 valid URLs launched, got %v", *opened)
	}
}

func TestOpenPropagatesLauncherError(t *testing.T) {
	prev := Launcher
	t.Cleanup(func() { Launcher = prev })
	Launcher = func(string) error { return errors.New("no display") }

	if err := Open("https://example.com"); err == nil {
		t.Error("expected launcher error to surface")
	}
}
