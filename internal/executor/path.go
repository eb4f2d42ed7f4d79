package executor

import (
	"path/filepath"
	"strings"
)

// absolute resolves path against the working directory. Desktop settings
// are read by other processes, so a relative path would be meaningless there.
func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// expandArgs substitutes every %s in args with path
func expandArgs(args []string, path string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = strings.ReplaceAll(arg, "%s", path)
	}
	return out
}

// parseSetting turns a gsettings value such as 'file:///home/me/wall.jpg'
// into a plain path.
func parseSetting(value string) string {
	v := strings.TrimSpace(value)
	v = strings.Trim(v, "'\"")
	return strings.TrimPrefix(v, "file://")
}
