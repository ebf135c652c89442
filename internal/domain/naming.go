package domain

import "fmt"

// VideoExt is the container extension of every produced video.
const VideoExt = ".avi"

// JobName builds "<prefix>_<position zero-padded to pad digits><ext>".
// Positions wider than pad are never truncated.
func JobName(prefix string, position, pad int, ext string) string {
	return fmt.Sprintf("%s_%0*d%s", prefix, pad, position, ext)
}
