package bitrate

import (
	"fmt"
	"strconv"
	"strings"
)

// FullQuality is the percentage at which the stream is copied instead of re-encoded.
const FullQuality = 100

// ParsePercent extracts the ASCII digits of raw and parses them as a
// percentage, so "50%", " 50 " and "q50" all mean 50. An empty string means
// FullQuality. A non-empty string without digits is an error.
func ParsePercent(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return FullQuality, nil
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, fmt.Errorf("invalid quality %q: expected a percentage such as 50 or 50%%", raw)
	}
	v, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, fmt.Errorf("invalid quality %q: %w", raw, err)
	}
	return v, nil
}

// VideoMbps scales maxMbps linearly by quality percent, truncating to whole
// Mbit/s and never going below 1.
func VideoMbps(quality, maxMbps int) int {
	v := int(float64(maxMbps) * (float64(quality) / 100.0))
	return Clamp(v, 1, maxMbps)
}

// Clamp returns v constrained to [min, max].
func Clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
