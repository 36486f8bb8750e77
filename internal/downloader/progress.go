package downloader

import (
	"strconv"
	"strings"
	"time"

	"ytrim/internal/model"
	"ytrim/internal/progress"
)

// ParseProgress parses one line of downloader output. Two shapes are
// understood:
//
//	[download]  45.2% of 10.00MiB at  1.50MiB/s ETA 00:04
//	frame=  120 fps= 30 ... size=    1024kB time=00:00:05.00 bitrate=... speed=1.2x
//
// The second is what yt-dlp relays from ffmpeg when --download-sections is
// used; its percent is relative to clip and is unknown (-1) when clip is zero.
func ParseProgress(line, jobID string, clip time.Duration) (progress.Update, bool) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "[download]") {
		return parseNative(strings.TrimPrefix(line, "[download]"), jobID)
	}
	if strings.Contains(line, "time=") && (strings.Contains(line, "size=") || strings.Contains(line, "frame=")) {
		return parseRelayed(line, jobID, clip)
	}
	return progress.Update{}, false
}

func parseNative(rest, jobID string) (progress.Update, bool) {
	fields := strings.Fields(rest)
	percent := -1.0
	var speed *string
	var eta *time.Duration
	for i, f := range fields {
		switch {
		case percent < 0 && strings.HasSuffix(f, "%"):
			if p, err := strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64); err == nil {
				percent = p
			}
		case f == "at" && i+1 < len(fields):
			s := fields[i+1]
			speed = &s
		case f == "ETA" && i+1 < len(fields):
			if d, err := model.ParseTimestamp(fields[i+1]); err == nil {
				eta = &d
			}
		}
	}
	// "[download] Destination: ..." and similar carry no progress.
	if percent < 0 {
		return progress.Update{}, false
	}
	return progress.Update{
		JobID:   jobID,
		Stage:   progress.StageDownloading,
		Percent: percent,
		Speed:   speed,
		ETA:     eta,
		Message: "Downloading",
	}, true
}

func parseRelayed(line, jobID string, clip time.Duration) (progress.Update, bool) {
	kv := keyValues(line)
	t, err := model.ParseTimestamp(kv["time"])
	if err != nil {
		return progress.Update{}, false
	}
	percent := -1.0
	if clip > 0 {
		percent = float64(t) / float64(clip) * 100
		if percent > 100 {
			percent = 100
		}
	}
	u := progress.Update{
		JobID:   jobID,
		Stage:   progress.StageDownloading,
		Percent: percent,
		Message: "Downloading",
	}
	if s, ok := kv["speed"]; ok && s != "N/A" {
		u.Speed = &s
	}
	return u, true
}

// keyValues splits ffmpeg stat lines, which pad values with spaces
// ("size=    1024kB"), into a key/value map.
func keyValues(line string) map[string]string {
	out := map[string]string{}
	fields := strings.Fields(line)
	for i := 0; i < len(fields); i++ {
		k, v, ok := strings.Cut(fields[i], "=")
		if !ok {
			continue
		}
		if v == "" && i+1 < len(fields) && !strings.Contains(fields[i+1], "=") {
			i++
			v = fields[i]
		}
		out[k] = v
	}
	return out
}
