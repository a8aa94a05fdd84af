package theme

import "testing"

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("tokyo-night").Name; got != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %q", got)
	}
	if got := ByName("nope").Name; got != FlexokiDark.Name {
		t.Errorf("unknown theme = %q, want %q", got, FlexokiDark.Name)
	}
	if Exists("nope") || !Exists("terminal") {
		t.Error("Exists is wrong")
	}
	if len(Names()) != len(All) {
		t.Errorf("Names() = %v", Names())
	}
}

func TestTone(t *testing.T) {
	th := FlexokiDark
	tests := []struct {
		pct  float64
		want string
	}{
		{0, string(th.OK)},
		{74.9, string(th.OK)},
		{75, string(th.Near)},
		{90, string(th.Warn)},
		{100, string(th.Warn)},
		{100.1, string(th.Over)},
	}
	for _, tt := range tests {
		if got := string(th.Tone(tt.pct)); got != tt.want {
			t.Errorf("Tone(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
	if th.ScoreTone(80) != th.OK || th.ScoreTone(50) != th.Near || th.ScoreTone(49) != th.Over {
		t.Error("ScoreTone bands are off")
	}
}

func TestThemesFillStatusRoles(t *testing.T) {
	for _, th := range All {
		for role, c := range map[string]string{
			"Surface": string(th.Surface),
			"OK":      string(th.OK),
			"Near":    string(th.Near),
			"Warn":    string(th.Warn),
			"Over":    string(th.Over),
			"Spend":   string(th.Spend),
		} {
			if c == "" {
				t.Errorf("%s: %s is unset", th.Name, role)
			}
		}
		if th.OK == th.Over {
			t.Errorf("%s: OK and Over share a color", th.Name)
		}
	}
}
