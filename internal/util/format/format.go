package format

import (
	"fmt"
	"strconv"
	"time"
)

// Size renders a byte count with binary units, e.g. "1.5 MB".
func Size(b int64) string {
	if b < 1024 {
		return strconv.FormatInt(b, 10) + " B"
	}
	units := []string{"KB", "MB", "GB", "TB"}
	v := float64(b) / 1024
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + " " + units[i]
}

// Mbps renders a bitrate in ffmpeg's suffix notation ("6M").
func Mbps(v int) string {
	return strconv.Itoa(v) + "M"
}

// Clock renders a duration as H:MM:SS or M:SS.
func Clock(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
