package normalizer

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tamil saree mishearing", "purawai 500 rupai", "pudavai 500 rupai"},
		{"currency mishearing", "pudavai 300 Roobai", "pudavai 300 rupai"},
		{"case insensitive", "PURAVAI", "pudavai"},
		{"english filler for demonstrative", "in tha manchal", "intha manjal"},
		{"whitespace collapse", "  yennai \t 2   litre ", "ennai 2 litre"},
		{"untouched english", "fresh organic turmeric", "fresh organic turmeric"},
		{"no partial word match", "indhanam", "indhanam"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	samples := []string{
		"purawai 500 rupai",
		"in tha poodavai roobai 1200",
		"indha yennai   arishi velai",
		"kimat 40 rupaye kilo",
		"Fresh ORGANIC Turmeric",
		"in the morning",
		"",
	}
	for _, s := range samples {
		once := Normalize(s)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}

func TestReplacementsDoNotRetrigger(t *testing.T) {
	for i, r := range rules {
		for j, other := range rules {
			if other.re.MatchString(r.repl) {
				t.Errorf("replacement %q of rule %d matches pattern of rule %d", r.repl, i, j)
			}
		}
	}
}
