// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import "testing"

func TestDOI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare DOI", "10.1000/xyz123", "10.1000/xyz123"},
		{"uppercase", "10.1000/XYZ123", "10.1000/xyz123"},
		{"surrounding whitespace", "  10.1000/xyz123 \n", "10.1000/xyz123"},
		{"doi label", "doi:10.1000/xyz123", "10.1000/xyz123"},
		{"doi label uppercase with space", "DOI: 10.1000/xyz123", "10.1000/xyz123"},
		{"https resolver", "https://doi.org/10.1000/xyz123", "10.1000/xyz123"},
		{"dx resolver", "http://dx.doi.org/10.1000/xyz123", "10.1000/xyz123"},
		{"bare host", "doi.org/10.1000/xyz123", "10.1000/xyz123"},
		{"unsafe characters encoded", "10.1000/a b<c>", "10.1000/a%20b%3cc%3e"},
		{"parens kept", "10.1016/s0169-5347(01)02380-1", "10.1016/s0169-5347(01)02380-1"},
		{"empty input", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DOI(tt.input)
			if got != tt.want {
				t.Errorf("DOI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDOIIdempotent(t *testing.T) {
	inputs := []string{
		"10.1000/xyz123",
		"doi: 10.1000/XYZ 123",
		"https://doi.org/10.1234/some<thing>",
		"10.1000/already%20encoded",
		"10.1000/50%25-off",
		"",
	}
	for _, in := range inputs {
		once := DOI(in)
		twice := DOI(once)
		if once != twice {
			t.Errorf("DOI not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestTitleForMatching(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain title", "Deep Tech Initiative", "deep tech initiative"},
		{"trailing parenthetical", "Deep Tech Initiative (DTI)", "deep tech initiative"},
		{"leading parenthetical", "(pilot) Deep Tech Initiative", "deep tech initiative"},
		{"acronym dash prefix", "DTI - Deep Tech Initiative", "deep tech initiative"},
		{"acronym colon prefix", "DTI: Deep Tech Initiative", "deep tech initiative"},
		{"acronym en dash prefix", "DTI – Deep Tech Initiative", "deep tech initiative"},
		{"trailing dash word", "Deep Tech Initiative - H2020", "deep tech initiative"},
		{"whitespace collapsed", "  Deep   Tech  Initiative ", "deep tech initiative"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TitleForMatching(tt.input)
			if got != tt.want {
				t.Errorf("TitleForMatching(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Variants that differ only by decoration must normalize to the same form,
// otherwise length dampening penalizes the decorated one.
func TestTitleVariantsConverge(t *testing.T) {
	base := TitleForMatching("Deep Tech Initiative")
	variant := TitleForMatching("Deep Tech Initiative (DTI)")
	if base != variant {
		t.Errorf("variants diverge: %q vs %q", base, variant)
	}
}
