package wiki

import "testing"

func TestTitleize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a  b,c.d", "A_bcd"},
		{"", ""},
		{"already Fine", "Already_Fine"},
		{"keep REST as is", "Keep_REST_as_is"},
		{"what/is?this;|:", "Whatisthis"},
		{"\ttabs\nand\vlines ", "_tabs_and_lines_"},
		{"élan vital", "Élan_vital"},
		{",.", ""},
	}

	for _, tt := range tests {
		if got := Titleize(tt.in); got != tt.want {
			t.Errorf("Titleize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
