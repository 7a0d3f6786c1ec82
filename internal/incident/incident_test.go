package incident

import "testing"

func TestIcon(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"kidnapping", "🚨"},
		{"armed_robbery", "🔫"},
		{"terrorism", "💣"},
		{"communal_conflict", "⚔️"},
		{"fraud", "📰"},
		{"", "📰"},
	}
	for _, tt := range tests {
		if got := Icon(tt.input); got != tt.want {
			t.Errorf("Icon(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAllKnownHaveIcons(t *testing.T) {
	for _, k := range Known() {
		if Icon(string(k)) == defaultIcon {
			t.Errorf("known type %s has no icon", k)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := Label("military_operation"); got != "MILITARY OPERATION" {
		t.Errorf("Label = %q", got)
	}
	if got := Label("punch"); got != "PUNCH" {
		t.Errorf("Label = %q", got)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		input string
		want  string
		err   bool
	}{
		{"robbery", "armed_robbery", false},
		{"  Kidnap ", "kidnapping", false},
		{"armed robbery", "armed_robbery", false},
		{"military-operation", "military_operation", false},
		{"banditry", "banditry", false},
		{"", "", false},
		{"drop table;", "", true},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("Resolve(%q): expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Resolve(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
