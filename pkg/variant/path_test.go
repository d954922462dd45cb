package variant

import "testing"

func TestParsePath(t *testing.T) {
	cases := []struct {
		in   string
		want Path
	}{
		{"", Path{}},
		{"a", Path{"a"}},
		{"a.b.c", Path{"a", "b", "c"}},
	}
	for _, c := range cases {
		got := ParsePath(c.in)
		if !got.Equal(c.want) {
			t.Errorf("ParsePath(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPathString(t *testing.T) {
	if got := (Path{"a", "b"}).String(); got != "a.b" {
		t.Errorf("String() = %q, want %q", got, "a.b")
	}
}

func TestPathEqual(t *testing.T) {
	if !(Path{"a", "b"}).Equal(Path{"a", "b"}) {
		t.Error("expected equal paths to compare equal")
	}
	if (Path{"a", "b"}).Equal(Path{"a", "c"}) {
		t.Error("expected different paths to compare unequal")
	}
	if (Path{"a"}).Equal(Path{"a", "b"}) {
		t.Error("expected different-length paths to compare unequal")
	}
}

func TestPathCloneIsIndependent(t *testing.T) {
	p := Path{"a", "b"}
	clone := p.Clone()
	clone[0] = "z"
	if p[0] != "a" {
		t.Error("mutating a clone affected the original")
	}
}
