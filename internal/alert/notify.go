package alert

import (
	"io"
	"os"
	"time"
)

// BeepPattern selects how many terminal bells a notification rings.
type BeepPattern int

const (
	BeepSingle BeepPattern = 1
	BeepDouble BeepPattern = 2
	BeepTriple BeepPattern = 3
)

// beepGap spaces consecutive bells so terminals render them as distinct
// beeps rather than coalescing them.
const beepGap = 150 * time.Millisecond

// Notifier rings the terminal bell when alerts fire. Disabled notifiers are
// no-ops, so callers never need to branch on configuration.
type Notifier struct {
	enabled bool
	out     io.Writer
}

// NewNotifier returns a notifier writing the bell to stdout.
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{enabled: enabled, out: os.Stdout}
}

// Beep rings the bell asynchronously so refresh cycles never block on
// terminal output.
func (n *Notifier) Beep(pattern BeepPattern) {
	if n == nil || !n.enabled {
		return
	}
	go func() {
		for i := 0; i < int(pattern); i++ {
			if i > 0 {
				time.Sleep(beepGap)
			}
			io.WriteString(n.out, "\a")
		}
	}()
}

// Notify maps the number of newly triggered alerts to a beep pattern: one
// alert beeps once, two beep twice, three or more beep three times.
func (n *Notifier) Notify(triggeredCount int) {
	if pattern, ok := patternFor(triggeredCount); ok {
		n.Beep(pattern)
	}
}

func patternFor(triggeredCount int) (BeepPattern, bool) {
	switch {
	case triggeredCount <= 0:
		return 0, false
	case triggeredCount == 1:
		return BeepSingle, true
	case triggeredCount == 2:
		return BeepDouble, true
	default:
		return BeepTriple, true
	}
}
