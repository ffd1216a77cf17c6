package projects

import (
	"os"
	"strings"
	"sync"
)

var (
	homeOnce    sync.Once
	encodedHome string
)

// pathEncoder mirrors how Claude Code turns a working directory into a
// project directory name.
var pathEncoder = strings.NewReplacer("/", "-", `\`, "-", ".", "-", ":", "-", "_", "-")

// DisplayName strips the current user's home directory prefix from a project
// id. It is a label only; aggregation always keys by the raw id.
func DisplayName(id string) string {
	homeOnce.Do(func() {
		if home, err := os.UserHomeDir(); err == nil {
			encodedHome = pathEncoder.Replace(home)
		}
	})
	return FormatName(id, encodedHome)
}

// FormatName strips an already-encoded home prefix from id.
// e.g. "-Users-me-Projects-codes" with home "-Users-me" -> "Projects-codes"
func FormatName(id, encodedHome string) string {
	if encodedHome != "" {
		if id == encodedHome {
			return "~"
		}
		if rest, ok := strings.CutPrefix(id, encodedHome+"-"); ok && rest != "" {
			return rest
		}
	}
	if trimmed := strings.TrimLeft(id, "-"); trimmed != "" {
		return trimmed
	}
	return id
}
