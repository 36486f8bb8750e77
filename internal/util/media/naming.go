package media

import (
	"path/filepath"
	"strings"

	"ytrim/internal/model"
)

// IntermediatePath derives the downloader's output file from the final output
// path: up to two extensions are stripped from the file name and
// model.IntermediateExt is appended. "out/clip.tar.mp4" becomes "out/clip.webm".
func IntermediatePath(output string) string {
	dir, base := filepath.Split(output)
	for i := 0; i < 2; i++ {
		base = stripExt(base)
	}
	return dir + base + "." + model.IntermediateExt
}

// OutputExt returns the extension of output without the dot. A path without
// an extension is treated as the intermediate format.
func OutputExt(output string) string {
	base := filepath.Base(output)
	ext := filepath.Ext(base)
	// A dotfile such as ".mp4" is a name, not an extension.
	if ext == "" || ext == base {
		return model.IntermediateExt
	}
	return strings.TrimPrefix(ext, ".")
}

// NeedsTranscode reports whether the downloaded intermediate has to be
// converted: the requested container differs, or a quality was asked for.
func NeedsTranscode(output string, qualitySet bool) bool {
	return qualitySet || OutputExt(output) != model.IntermediateExt
}

// stripExt removes one extension. Leading dots of hidden files are not
// extensions, so ".clip" stays intact.
func stripExt(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}
