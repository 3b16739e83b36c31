package assemble

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// ErrTimeParse indicates a timestamp field could not be parsed. Timestamp
// corruption is a hard stop for the run, not something to mask.
var ErrTimeParse = errors.New("unparseable timestamp")

// TimeWindow is an inclusive [begin, end] timestamp pair.
type TimeWindow struct {
	Begin time.Time
	End   time.Time
}

// DefaultWindow spans from the Unix epoch to the largest 32-bit Unix time
// (2038-01-19T03:14:07Z): effectively unbounded for monitoring data without
// resorting to literal infinity.
func DefaultWindow() TimeWindow {
	return TimeWindow{
		Begin: time.Unix(0, 0).UTC(),
		End:   time.Unix(math.MaxInt32, 0).UTC(),
	}
}

// Contains reports whether ts falls inside the window, bounds included.
func (w TimeWindow) Contains(ts time.Time) bool {
	return !ts.Before(w.Begin) && !ts.After(w.End)
}

// ParseTimestamp parses a timestamp field permissively: a plain integer is
// taken as Unix seconds, anything else goes through a best-effort date-time
// parse. Failures wrap ErrTimeParse.
func ParseTimestamp(s string) (time.Time, error) {
	if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(seconds, 0).UTC(), nil
	}

	ts, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrTimeParse, s)
	}

	return ts, nil
}
