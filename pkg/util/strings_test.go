package util

import "testing"

func TestParseIntDefault(t *testing.T) {
    cases := map[string]int{"": 7, "  ": 7, "12": 12, " 42 ": 42, "x1": 7, "-3": -3}
    for in, want := range cases {
        if got := ParseIntDefault(in, 7); got != want {
            t.Fatalf("ParseIntDefault(%q) = %d, want %d", in, got, want)
        }
    }
}

func TestClampInt(t *testing.T) {
    if ClampInt(0, 1, 100) != 1 || ClampInt(500, 1, 100) != 100 || ClampInt(20, 1, 100) != 20 {
        t.Fatalf("unexpected clamp")
    }
}

func TestCeilDiv(t *testing.T) {
    if CeilDiv(0, 20) != 0 || CeilDiv(1, 20) != 1 || CeilDiv(40, 20) != 2 || CeilDiv(41, 20) != 3 {
        t.Fatalf("unexpected ceil div")
    }
    if CeilDiv(10, 0) != 0 {
        t.Fatalf("expected 0 for zero divisor")
    }
}
