package sanitize

import "testing"

func TestCleanReplacesTypographicChars(t *testing.T) {
	s := NewLaTeX()

	in := "“Deep Work” — it’s focus…"
	want := `"Deep Work" --- it's focus...`
	if got := s.Clean(in); got != want {
		t.Fatalf("Clean(%q) = %q, want %q", in, got, want)
	}
}

func TestCleanStripsOutsideSafeRange(t *testing.T) {
	s := NewLaTeX()

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain ascii text", "plain ascii text"},
		{"emoji \U0001F600 gone", "emoji  gone"},
		{"\U0001F600世界", ""}, // entirely outside the safe set
		{"café con acentos: mañana", "café con acentos: mañana"},
	}
	for _, tc := range cases {
		if got := s.Clean(tc.in); got != tc.want {
			t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanRemovesInvisibleMarks(t *testing.T) {
	s := NewLaTeX()

	if got := s.Clean("\uFEFFa\u200Bb"); got != "ab" {
		t.Fatalf("Clean did not drop BOM/zero-width space: %q", got)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	s := NewLaTeX()

	inputs := []string{
		"",
		"already clean",
		"‘mixed’ – content … with \U0001F680 junk",
		"  leading nbsp",
		"\uFEFFbom prefix",
	}
	for _, in := range inputs {
		once := s.Clean(in)
		twice := s.Clean(once)
		if once != twice {
			t.Fatalf("Clean not idempotent for %q: %q != %q", in, once, twice)
		}
		if !s.Allowed(once) {
			t.Fatalf("Clean(%q) = %q still contains disallowed runes", in, once)
		}
	}
}

func TestCustomReplacementsAreNormalized(t *testing.T) {
	// A replacement that itself contains a mapped rune must not survive.
	s := New(Config{
		Replacements: map[rune]string{
			'—': "–", // em dash mapped to en dash...
			'–': "-",      // ...which is itself mapped
		},
	})

	got := s.Clean("a—b")
	if got != "ab" && got != "a-b" {
		t.Fatalf("unexpected Clean result %q", got)
	}
	if s.Clean(got) != got {
		t.Fatalf("custom mapping broke idempotence: %q -> %q", got, s.Clean(got))
	}
}
