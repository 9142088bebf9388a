package httpapi

import "testing"

func TestParseLimit(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 20, false},
		{"1", 1, false},
		{"50", 50, false},
		{"500", 500, false},
		{"9999", 500, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"ten", 0, true},
	}
	for _, c := range cases {
		got, err := parseLimit(c.in)
		if (err != nil) != c.wantErr {
			t.Fatalf("parseLimit(%q) err=%v wantErr=%v", c.in, err, c.wantErr)
		}
		if got != c.want {
			t.Fatalf("parseLimit(%q)=%d want %d", c.in, got, c.want)
		}
	}
}
