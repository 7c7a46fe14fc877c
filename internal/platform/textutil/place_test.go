package textutil

import "testing"

func TestCityCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"berlin", "Berlin"},
		{"FRANKFURT AM MAIN", "Frankfurt Am Main"},
		{"castrop-rauxel", "Castrop-Rauxel"},
		{"  münchen ", "München"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CityCase(tc.in); got != tc.want {
			t.Fatalf("CityCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
