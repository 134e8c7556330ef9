package validate

import (
	"errors"
	"strings"
	"testing"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestValidateEmpty(t *testing.T) {
	v := Validator{MinWords: 50}

	for _, in := range []string{"", "   ", "\n\t\n"} {
		err := v.Validate(in)
		if !errors.Is(err, ErrEmpty) {
			t.Fatalf("Validate(%q) = %v, want ErrEmpty", in, err)
		}
	}
}

func TestValidateMinWords(t *testing.T) {
	v := Validator{MinWords: 50}

	if err := v.Validate(words(10)); !errors.Is(err, ErrTooShort) {
		t.Fatalf("10 words: got %v, want ErrTooShort", err)
	}
	if err := v.Validate(words(51)); err != nil {
		t.Fatalf("51 words: got %v, want nil", err)
	}
	if err := v.Validate(words(50)); err != nil {
		t.Fatalf("exactly 50 words: got %v, want nil", err)
	}
}

func TestValidateMinChars(t *testing.T) {
	v := Validator{MinChars: 20}

	if err := v.Validate("short"); !errors.Is(err, ErrTooShort) {
		t.Fatalf("got %v, want ErrTooShort", err)
	}
	if err := v.Validate(strings.Repeat("x", 20)); err != nil {
		t.Fatalf("got %v, want nil", err)
	}
}

func TestRejected(t *testing.T) {
	v := Validator{MinWords: 5}

	if !Rejected(v.Validate("one two")) {
		t.Fatal("expected Rejected for short output")
	}
	if !Rejected(v.Validate("")) {
		t.Fatal("expected Rejected for empty output")
	}
	if Rejected(errors.New("provider exploded")) {
		t.Fatal("unrelated error must not count as rejection")
	}
}
