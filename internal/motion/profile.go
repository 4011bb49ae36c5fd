package motion

import (
	"fmt"
	"math"
)

// Profile is a named camera trajectory applied to a static image. The set
// is closed: every profile is a pure function of the elapsed fraction of
// the segment, so identical inputs always produce identical camera states.
type Profile int

const (
	ZoomIn Profile = iota
	PushIn
	Pan
	ZoomOut
	TiltUp
	Drift
	Pulse
	Focus
)

var profileNames = map[string]Profile{
	"zoom_in":  ZoomIn,
	"push_in":  PushIn,
	"pan":      Pan,
	"zoom_out": ZoomOut,
	"tilt_up":  TiltUp,
	"drift":    Drift,
	"pulse":    Pulse,
	"focus":    Focus,
}

// ParseProfile maps a script-level profile name to a Profile. Unknown
// names are a configuration error: the script must be fully resolved
// before rendering starts.
func ParseProfile(name string) (Profile, error) {
	p, ok := profileNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown motion profile %q", name)
	}
	return p, nil
}

func (p Profile) String() string {
	for name, v := range profileNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("profile(%d)", int(p))
}

// State is the camera at one instant: a uniform scale factor (>= 1 keeps
// the crop window inside the source) and a window-center offset expressed
// as a fraction of the frame dimensions.
type State struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Trajectory amplitude constants, tuned against the reference footage.
const (
	zoomInDepth   = 0.15
	pushInDepth   = 0.12
	pushInLift    = 0.05
	panScale      = 1.15
	panSweep      = 0.08
	tiltScale     = 1.10
	tiltSweep     = 0.08
	driftScale    = 1.12
	driftSweep    = 0.06
	pulseBaseline = 1.08
	pulseAmp      = 0.03
	focusDepth    = 0.25
	focusLift     = 0.06
)

// At evaluates the trajectory at elapsed fraction t in [0,1].
//
// Every trajectory keeps Scale >= 1.0 for all t, including pulse, whose
// oscillation is centered on a baseline above 1.0 + amplitude. That is
// what guarantees the crop window never has to extrapolate outside the
// source image.
func (p Profile) At(t float64) State {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	switch p {
	case ZoomIn:
		e := easeInOutCubic(t)
		return State{Scale: 1 + zoomInDepth*e}
	case PushIn:
		e := easeInOutCubic(t)
		return State{Scale: 1 + pushInDepth*e, OffsetY: -pushInLift * e}
	case Pan:
		// Constant velocity, fixed scale.
		return State{Scale: panScale, OffsetX: (t - 0.5) * panSweep}
	case ZoomOut:
		e := easeInOutCubic(t)
		return State{Scale: 1 + zoomInDepth*(1-e)}
	case TiltUp:
		// Bottom to top, vertical only.
		return State{Scale: tiltScale, OffsetY: (0.5 - t) * tiltSweep}
	case Drift:
		d := (t - 0.5) * driftSweep
		return State{Scale: driftScale, OffsetX: d, OffsetY: d}
	case Pulse:
		return State{Scale: pulseBaseline + pulseAmp*math.Sin(2*math.Pi*t)}
	case Focus:
		e := easeInCubic(t)
		return State{Scale: 1 + focusDepth*e, OffsetY: -focusLift * e}
	default:
		return State{Scale: 1}
	}
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

func easeInCubic(t float64) float64 {
	return t * t * t
}
