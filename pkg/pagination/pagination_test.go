package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{1, 1},
		{100, 100},
		{101, DefaultLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePage(t *testing.T) {
	if got := NormalizePage(0); got != 1 {
		t.Fatalf("NormalizePage(0) = %d, want 1", got)
	}
	if got := NormalizePage(7); got != 7 {
		t.Fatalf("NormalizePage(7) = %d, want 7", got)
	}
}
