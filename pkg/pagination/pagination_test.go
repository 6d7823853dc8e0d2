package pagination

import "testing"

func TestParseAppliesDefaults(t *testing.T) {
	cases := []struct {
		limit, offset string
		want          Params
	}{
		{"", "", Params{}},
		{"6", "", Params{Limit: 6}},
		{"", "20", Params{Limit: DefaultLimit, Offset: 20}},
		{"500", "0", Params{Limit: MaxLimit}},
		{" 5 ", " 10 ", Params{Limit: 5, Offset: 10}},
	}
	for _, tc := range cases {
		got, err := Parse(tc.limit, tc.offset)
		if err != nil {
			t.Fatalf("Parse(%q,%q): %v", tc.limit, tc.offset, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q,%q) = %+v, want %+v", tc.limit, tc.offset, got, tc.want)
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, raw := range [][2]string{{"abc", ""}, {"-1", ""}, {"", "x"}, {"", "-5"}} {
		if _, err := Parse(raw[0], raw[1]); err == nil {
			t.Fatalf("expected error for %v", raw)
		}
	}
}

func TestNormalizeClampsNegatives(t *testing.T) {
	got := Params{Limit: -3, Offset: -1}.Normalize()
	if got != (Params{}) {
		t.Fatalf("unexpected %+v", got)
	}
}
