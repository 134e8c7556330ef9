package sanitize

import (
	"strings"
	"sync"
)

// Sanitizer rewrites text so it contains only characters the downstream
// typesetter can handle. Runes with a configured replacement are substituted,
// anything else outside the safe set is dropped. The pass is deterministic
// and idempotent: Clean(Clean(x)) == Clean(x).
type Sanitizer struct {
	mu           sync.RWMutex
	replacements map[rune]string
	safe         func(rune) bool
}

// Config configures a Sanitizer.
type Config struct {
	// Replacements maps disallowed runes to their substitution. Replacement
	// strings are normalized at construction so they cannot reintroduce
	// unsafe characters.
	Replacements map[rune]string

	// Safe reports whether a rune may appear in sanitized output. Nil
	// defaults to the Latin range used for LaTeX export.
	Safe func(rune) bool
}

// latexReplacements is the default mapping for LaTeX/PDF export. It covers
// the characters AI CLIs commonly emit that xelatex templates choke on.
var latexReplacements = map[rune]string{
	'‘':      "'",   // left single quote
	'’':      "'",   // right single quote
	'“':      `"`,   // left double quote
	'”':      `"`,   // right double quote
	'–':      "--",  // en dash
	'—':      "---", // em dash
	'…':      "...", // ellipsis
	' ':      " ",   // non-breaking space
	'−':      "-",   // minus sign
	'•':      "*",   // bullet
	'ﬁ':      "fi",  // fi ligature
	'ﬂ':      "fl",  // fl ligature
	'\u200B': "",    // zero-width space
	'\uFEFF': "",    // BOM
}

// latexSafe admits printable ASCII, common whitespace, and Latin-1/Latin
// Extended letters (accents survive, xelatex handles them).
func latexSafe(r rune) bool {
	switch r {
	case '\n', '\t', '\r':
		return true
	}
	if r >= 0x20 && r <= 0x7E {
		return true
	}
	// Latin-1 Supplement and Latin Extended-A letters and punctuation.
	return r >= 0xA1 && r <= 0x17F
}

// New creates a Sanitizer from config.
func New(cfg Config) *Sanitizer {
	safe := cfg.Safe
	if safe == nil {
		safe = latexSafe
	}
	s := &Sanitizer{
		replacements: make(map[rune]string, len(cfg.Replacements)),
		safe:         safe,
	}
	// Register all keys before normalizing so normalization sees the full
	// mapping regardless of iteration order.
	for r := range cfg.Replacements {
		s.replacements[r] = ""
	}
	for r, repl := range cfg.Replacements {
		s.replacements[r] = s.normalize(repl)
	}
	return s
}

// NewLaTeX creates a Sanitizer with the default LaTeX-safe mapping.
func NewLaTeX() *Sanitizer {
	return New(Config{Replacements: latexReplacements})
}

// normalize strips a replacement string down to runes the sanitizer would
// itself accept, so substitution output is always a fixed point.
func (s *Sanitizer) normalize(repl string) string {
	var b strings.Builder
	for _, r := range repl {
		if _, mapped := s.replacements[r]; mapped {
			continue
		}
		if s.safe(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Clean returns text with every disallowed rune substituted or removed.
func (s *Sanitizer) Clean(text string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if repl, ok := s.replacements[r]; ok {
			b.WriteString(repl)
			continue
		}
		if s.safe(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Allowed reports whether every rune in text would survive Clean unchanged.
func (s *Sanitizer) Allowed(text string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range text {
		if _, ok := s.replacements[r]; ok {
			return false
		}
		if !s.safe(r) {
			return false
		}
	}
	return true
}
