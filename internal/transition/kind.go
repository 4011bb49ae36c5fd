package transition

import "fmt"

// Kind names one of the fixed bridge effects between two adjacent
// segments. The set is closed; dispatch happens in a single switch so a
// new kind cannot be added without handling it everywhere.
type Kind int

const (
	None Kind = iota
	Crossfade
	SlideLeft
	SlideRight
	SlideUp
	SlideDown
	Flash
	WipeLeft
	WipeRight
	WipeUp
	WipeDown
	WipeRaindrop
	Whip
)

var kindNames = map[string]Kind{
	"none":          None,
	"crossfade":     Crossfade,
	"slide_left":    SlideLeft,
	"slide_right":   SlideRight,
	"slide_up":      SlideUp,
	"slide_down":    SlideDown,
	"flash":         Flash,
	"wipe_left":     WipeLeft,
	"wipe_right":    WipeRight,
	"wipe_up":       WipeUp,
	"wipe_down":     WipeDown,
	"wipe_raindrop": WipeRaindrop,
	"whip":          Whip,
}

// ParseKind maps the script-level transition name to a Kind. An unknown
// name is a configuration error.
func ParseKind(name string) (Kind, error) {
	k, ok := kindNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown transition kind %q", name)
	}
	return k, nil
}

func (k Kind) String() string {
	for name, v := range kindNames {
		if v == k {
			return name
		}
	}
	return fmt.Sprintf("kind(%d)", int(k))
}
