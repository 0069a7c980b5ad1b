package month

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		year, mon, err := Parse("2025-06")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if year != 2025 || mon != 6 {
			t.Errorf("expected 2025/6, got %d/%d", year, mon)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, token := range []string{"", "2025", "2025-13", "2025-00", "2025-6", "202506", "garbage", "2025-06-01"} {
			if _, _, err := Parse(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken for %q, got %v", token, err)
			}
		}
	})
}

func TestOffset(t *testing.T) {
	cases := []struct {
		token string
		n     int
		want  string
	}{
		{"2025-01", 0, "2025-01"},
		{"2025-01", 2, "2025-03"},
		{"2025-11", 3, "2026-02"},
		{"2025-01", 12, "2026-01"},
		{"2025-01", 25, "2027-02"},
		{"2025-06", -4, "2025-02"},
		{"2025-02", -3, "2024-11"},
		{"2025-01", -13, "2023-12"},
	}
	for _, c := range cases {
		got, err := Offset(c.token, c.n)
		if err != nil {
			t.Fatalf("Offset(%q, %d): %v", c.token, c.n, err)
		}
		if got != c.want {
			t.Errorf("Offset(%q, %d) = %q, want %q", c.token, c.n, got, c.want)
		}
	}

	if _, err := Offset("bad", 1); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestBetween(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"2025-01", "2025-01", 0},
		{"2025-01", "2025-04", 3},
		{"2024-11", "2025-02", 3},
		{"2025-04", "2025-01", -3},
		{"2020-01", "2025-01", 60},
	}
	for _, c := range cases {
		got, err := Between(c.a, c.b)
		if err != nil {
			t.Fatalf("Between(%q, %q): %v", c.a, c.b, err)
		}
		if got != c.want {
			t.Errorf("Between(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestOffsetBetweenRoundTrip(t *testing.T) {
	for n := -30; n <= 30; n++ {
		shifted, err := Offset("2025-06", n)
		if err != nil {
			t.Fatalf("Offset: %v", err)
		}
		back, err := Between("2025-06", shifted)
		if err != nil {
			t.Fatalf("Between: %v", err)
		}
		if back != n {
			t.Errorf("round trip for n=%d gave %d", n, back)
		}
	}
}

func TestCompare(t *testing.T) {
	if Compare("2024-12", "2025-01") >= 0 {
		t.Error("expected 2024-12 < 2025-01")
	}
	if Compare("2025-02", "2025-02") != 0 {
		t.Error("expected equal tokens to compare equal")
	}
	if Compare("2025-10", "2025-09") <= 0 {
		t.Error("expected 2025-10 > 2025-09")
	}
}

func TestRange(t *testing.T) {
	start, end, err := Range("2025-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start: %v", start)
	}
	if end.Day() != 28 || end.Month() != time.February {
		t.Errorf("expected end on Feb 28, got %v", end)
	}

	// Leap year
	_, end, err = Range("2024-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end.Day() != 29 {
		t.Errorf("expected leap-year end on Feb 29, got %v", end)
	}
}
