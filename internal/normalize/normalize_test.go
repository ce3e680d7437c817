package normalize

import (
	"reflect"
	"testing"
)

func TestDate(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "slash month day year", raw: "03/17/2024", want: "2024-03-17"},
		{name: "dot day month year", raw: "17.03.2024", want: "2024-03-17"},
		{name: "slash single digits padded", raw: "1/2/2024", want: "2024-01-02"},
		{name: "dot single digits padded", raw: "2.1.2024", want: "2024-01-02"},
		{name: "empty", raw: "", want: ""},
		{name: "whitespace only", raw: "   ", want: ""},
		{name: "no delimiter", raw: "20240317", want: ""},
		{name: "too few segments", raw: "03/2024", want: ""},
		{name: "too many segments", raw: "03/17/20/24", want: ""},
		{name: "non-numeric segment", raw: "ab/17/2024", want: ""},
		{name: "already iso passes through", raw: "2024-03-17", want: "2024-03-17"},
		{name: "iso without padding", raw: "2024-3-7", want: "2024-03-07"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Date(tc.raw); got != tc.want {
				t.Fatalf("Date(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestList(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want []string
	}{
		{name: "comma joined string", raw: "a, b ,c", want: []string{"a", "b", "c"}},
		{name: "native string slice", raw: []string{"x", " y"}, want: []string{"x", "y"}},
		{name: "json decoded any slice", raw: []any{"p ", " q"}, want: []string{"p", "q"}},
		{name: "absent", raw: nil, want: []string{}},
		{name: "empty string", raw: "", want: []string{}},
		{name: "only commas", raw: ",,", want: []string{}},
		{name: "trailing comma", raw: "a,", want: []string{"a"}},
		{name: "non-list non-string", raw: 42, want: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := List(tc.raw); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("List(%v) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	got := Set("a, b, a , c, b")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Set = %v, want %v", got, want)
	}

	if got := Set(nil); !reflect.DeepEqual(got, []string{}) {
		t.Fatalf("Set(nil) = %v, want empty", got)
	}
}

func TestFlag(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want bool
	}{
		{name: "remote marker", raw: "Y", want: true},
		{name: "store literal true", raw: true, want: true},
		{name: "store string true", raw: "true", want: true},
		{name: "remote no marker", raw: "N", want: false},
		{name: "lowercase y", raw: "y", want: false},
		{name: "absent", raw: nil, want: false},
		{name: "false", raw: false, want: false},
		{name: "empty string", raw: "", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Flag(tc.raw); got != tc.want {
				t.Fatalf("Flag(%v) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got := String("Brno", "Untitled"); got != "Brno" {
		t.Fatalf("String = %q, want Brno", got)
	}
	if got := String("", "Untitled"); got != "Untitled" {
		t.Fatalf("String empty = %q, want fallback", got)
	}
	if got := String(nil, "Untitled"); got != "Untitled" {
		t.Fatalf("String nil = %q, want fallback", got)
	}
}
