package strings

import (
	"testing"

	"ganadero/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	if got := IfEmpty([]string{"https://campo.example"}, []string{"*"}); len(got) != 1 || got[0] != "https://campo.example" {
		t.Fatalf("IfEmpty kept wrong slice: %#v", got)
	}
	if got := IfEmpty(nil, []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("IfEmpty did not return default: %#v", got)
	}
}

func TestMustString(t *testing.T) {
	t.Parallel()

	if got := MustString("commands", "module name"); got != "commands" {
		t.Fatalf("got %q", got)
	}
	testkit.MustPanic(t, func() { MustString("  ", "module name") })
}

func TestMustPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"commands", "/commands"},
		{"/meta/", "/meta"},
		{"  //commands// ", "/commands"},
	}
	for _, c := range cases {
		if got := MustPrefix(c.in); got != c.want {
			t.Errorf("MustPrefix(%q) = %q want %q", c.in, got, c.want)
		}
	}
	testkit.MustPanic(t, func() { MustPrefix(" / ") })
}
