package util

import (
    "strconv"
    "strings"
)

// ParseIntDefault parses s as a base-10 int, returning def when s is empty or invalid.
func ParseIntDefault(s string, def int) int {
    s = strings.TrimSpace(s)
    if s == "" {
        return def
    }
    v, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return v
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
    if v < lo {
        return lo
    }
    if v > hi {
        return hi
    }
    return v
}

// CeilDiv returns ceil(a/b) for non-negative a and positive b.
func CeilDiv(a, b int) int {
    if b <= 0 {
        return 0
    }
    return (a + b - 1) / b
}
