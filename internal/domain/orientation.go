package domain

import (
	"fmt"
	"strings"
)

// Orientation is the discrete tilt state derived from one sensor axis.
type Orientation int

const (
	Unknown Orientation = iota
	Landscape
	LeftRotation
	RightRotation
	InvertedLandscape
)

var orientationNames = map[Orientation]string{
	Unknown:           "unknown",
	Landscape:         "landscape",
	LeftRotation:      "left_rotation",
	RightRotation:     "right_rotation",
	InvertedLandscape: "inverted_landscape",
}

func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("orientation(%d)", int(o))
}

// ParseOrientation maps a config name back to an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for o, name := range orientationNames {
		if o != Unknown && name == want {
			return o, nil
		}
	}
	return Unknown, fmt.Errorf("unknown orientation %q", s)
}

// Transform is the rotation applied to a logical display. The values are the
// wire codes used by the display configuration service and are not
// contiguous.
type Transform uint32

const (
	TransformNormal   Transform = 0
	TransformLeft     Transform = 1
	TransformRight    Transform = 3
	TransformInverted Transform = 6
)

func (t Transform) String() string {
	switch t {
	case TransformNormal:
		return "normal"
	case TransformLeft:
		return "left"
	case TransformRight:
		return "right"
	case TransformInverted:
		return "inverted"
	default:
		return fmt.Sprintf("transform(%d)", uint32(t))
	}
}

// Rotated reports whether the transform swaps the visual width and height.
func (t Transform) Rotated() bool {
	return t == TransformLeft || t == TransformRight
}

// ParseTransform accepts the names used on the command line.
func ParseTransform(s string) (Transform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return TransformNormal, nil
	case "left":
		return TransformLeft, nil
	case "right":
		return TransformRight, nil
	case "inverted":
		return TransformInverted, nil
	default:
		return 0, fmt.Errorf("invalid rotation %q: must be one of normal, left, right, inverted", s)
	}
}

// TransformFor maps an orientation to the display transform it requests.
func TransformFor(o Orientation) (Transform, bool) {
	switch o {
	case Landscape:
		return TransformNormal, true
	case LeftRotation:
		return TransformLeft, true
	case RightRotation:
		return TransformRight, true
	case InvertedLandscape:
		return TransformInverted, true
	default:
		return 0, false
	}
}
