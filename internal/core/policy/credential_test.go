package policy

import (
	"strings"
	"testing"
)

func TestIdentifierValid(t *testing.T) {
	cases := map[string]bool{
		"alice":       true,
		"a":           true,
		"bob_2":       true,
		"x_y_z_9":     true,
		"":            false,
		"Alice_1":     false,
		"1alice":      false,
		"_alice":      false,
		"ali ce":      false,
		"alice-b":     false,
		"alice\n":     false,
		"\u00e5lice":  false,
		"alice.smith": false,
	}
	for in, want := range cases {
		if got := IdentifierValid(in); got != want {
			t.Errorf("IdentifierValid(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIdentifierValid_MatchesGrammar(t *testing.T) {
	// exhaustive over short strings drawn from a small alphabet
	alphabet := []byte("aZ0_ -")
	var walk func(prefix []byte, depth int)
	walk = func(prefix []byte, depth int) {
		s := string(prefix)
		want := len(s) > 0 && s[0] >= 'a' && s[0] <= 'z'
		for i := 1; want && i < len(s); i++ {
			c := s[i]
			want = (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
		}
		if got := IdentifierValid(s); got != want {
			t.Fatalf("IdentifierValid(%q) = %v, want %v", s, got, want)
		}
		if depth == 0 {
			return
		}
		for _, c := range alphabet {
			walk(append(prefix, c), depth-1)
		}
	}
	walk(nil, 4)
}

func TestContainsWhitespace(t *testing.T) {
	cases := map[string]bool{
		"alice":    false,
		"":         false,
		"ali ce":   true,
		"alice\t":  true,
		"\nalice":  true,
		"a\u00a0b": true,
		"a\u2003b": true,
	}
	for in, want := range cases {
		if got := ContainsWhitespace(in); got != want {
			t.Errorf("ContainsWhitespace(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPasswordStrong(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Str0ng!Pass", true},
		{"Aa1!aaaa", true},
		{"Aa1!aaa", false},        // too short
		{"weak", false},           // short, missing classes
		{"aaaaaaa1!", false},      // no uppercase
		{"AAAAAAA1!", false},      // no lowercase
		{"Aaaaaaaa!", false},      // no digit
		{"Aaaaaaaa1", false},      // no symbol
		{"Aa1!aaaa ", false},      // whitespace
		{"Aa1!aaaa-", false},      // '-' outside the symbol set
		{"Aa1!aaaa\u00e9", false}, // non-ascii
		{"", false},
	}
	for _, tc := range cases {
		if got := PasswordStrong(tc.in); got != tc.want {
			t.Errorf("PasswordStrong(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPasswordStrong_EverySymbol(t *testing.T) {
	for _, sym := range PasswordSymbols {
		p := "Abcdefg1" + string(sym)
		if !PasswordStrong(p) {
			t.Errorf("PasswordStrong(%q) = false, want true", p)
		}
	}
}

func TestEmailValid(t *testing.T) {
	cases := map[string]bool{
		"a@b.com":           true,
		"first.last@ex.org": true,
		"x_1@sub.domain.io": true,
		"a@b":               false,
		"@b.com":            false,
		"a@.com":            false,
		"a b@c.com":         false,
		"a@b.com.":          false,
		"":                  false,
		"plainaddress":      false,
	}
	for in, want := range cases {
		if got := EmailValid(in); got != want {
			t.Errorf("EmailValid(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHashPassword(t *testing.T) {
	h1 := HashPassword("Str0ng!Pass")
	h2 := HashPassword("Str0ng!Pass")
	if h1 != h2 {
		t.Fatalf("hash is not deterministic: %s != %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(h1))
	}
	if strings.Trim(h1, "0123456789abcdef") != "" {
		t.Fatalf("hash is not lowercase hex: %s", h1)
	}
	if h1 == HashPassword("Str0ng!Pas5") {
		t.Fatalf("different passwords produced the same hash")
	}
	// sha256("abc")
	if got := HashPassword("abc"); got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Fatalf("unexpected digest for abc: %s", got)
	}
}
