package highlights

import (
	"fmt"
	"path"
	"strings"
)

const (
	DefaultClipPrefix = "highlight"
	DefaultClipFormat = "mp4"
)

// ClipFileName builds "<prefix>_<stamp>_<index>.<ext>". The stamp keeps
// separate runs apart, the index keeps clips of one run apart.
func ClipFileName(prefix string, stamp int64, index int, ext string) string {
	if prefix == "" {
		prefix = DefaultClipPrefix
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = DefaultClipFormat
	}
	return fmt.Sprintf("%s_%d_%d.%s", prefix, stamp, index, ext)
}

// PublicPath joins a URL prefix and a file name into an absolute web path.
func PublicPath(prefix, name string) string {
	prefix = "/" + strings.Trim(prefix, "/")
	return path.Join(prefix, name)
}
