package stats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidWindow is returned for a window selector that is neither "all"
// nor a positive number of days.
var ErrInvalidWindow = errors.New("invalid window")

const (
	DefaultWindow = "7"
	windowAll     = "all"
	dateLayout    = "2006-01-02"
)

// Window is a date window selector: the last Days local calendar days
// including today, or everything when Days is 0.
type Window struct {
	Days int
}

// ParseWindow accepts "7", "30", "all" or any positive integer. An empty
// selector means the default window.
func ParseWindow(s string) (Window, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		s = DefaultWindow
	}
	if s == windowAll {
		return Window{}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidWindow, s)
	}
	return Window{Days: n}, nil
}

// All reports whether the window is unbounded.
func (w Window) All() bool {
	return w.Days <= 0
}

func (w Window) String() string {
	if w.All() {
		return windowAll
	}
	return strconv.Itoa(w.Days)
}

// Cutoff returns local midnight of the first day in the window. Unbounded
// windows return the zero time.
func (w Window) Cutoff(now time.Time, loc *time.Location) time.Time {
	if w.All() {
		return time.Time{}
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()-(w.Days-1), 0, 0, 0, 0, loc)
}

// inWindow reports whether ts is at or after cutoff. Records without a
// timestamp are never counted.
func inWindow(ts, cutoff time.Time) bool {
	return !ts.IsZero() && !ts.Before(cutoff)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
