package domain

import "strings"

var frameExtAliases = map[string][]string{
	"jpg":  {".jpg", ".jpeg"},
	"jpeg": {".jpg", ".jpeg"},
	"png":  {".png"},
}

// FrameExtensions returns the file extensions accepted for a configured ext
// such as "jpg" or ".PNG".
func FrameExtensions(ext string) ([]string, bool) {
	accepted, ok := frameExtAliases[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return accepted, ok
}

// SupportedExt reports whether ext can be used as a frame filter.
func SupportedExt(ext string) bool {
	_, ok := FrameExtensions(ext)
	return ok
}
