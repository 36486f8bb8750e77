package encoder

import (
	"strconv"
	"strings"
	"time"

	"ytrim/internal/progress"
)

// ProgressState accumulates ffmpeg -progress key=value lines; an update is
// emitted on each "progress=" marker.
type ProgressState struct {
	OutTime   time.Duration
	SpeedStr  string
	TotalSize int64
}

// UpdateFromLine folds one line into the state. clip is the expected output
// duration; zero leaves the percent unknown.
func (ps *ProgressState) UpdateFromLine(line, jobID string, clip time.Duration) (progress.Update, bool) {
	key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return progress.Update{}, false
	}
	key, val = strings.TrimSpace(key), strings.TrimSpace(val)

	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds in current ffmpeg builds.
		if v, err := strconv.ParseInt(val, 10, 64); err == nil && v >= 0 {
			ps.OutTime = time.Duration(v) * time.Microsecond
		}
	case "speed":
		ps.SpeedStr = val
	case "total_size":
		if v, err := strconv.ParseInt(val, 10, 64); err == nil {
			ps.TotalSize = v
		}
	case "progress":
		percent := -1.0
		if clip > 0 {
			percent = float64(ps.OutTime) / float64(clip) * 100
			if percent > 100 {
				percent = 100
			}
		}
		if val == "end" {
			percent = 100
		}
		u := progress.Update{
			JobID:   jobID,
			Stage:   progress.StageTranscoding,
			Percent: percent,
			Message: "Converting",
		}
		if ps.SpeedStr != "" && ps.SpeedStr != "N/A" {
			s := ps.SpeedStr
			u.Speed = &s
		}
		if ps.TotalSize > 0 {
			b := ps.TotalSize
			u.Bytes = &b
		}
		return u, true
	}
	return progress.Update{}, false
}
