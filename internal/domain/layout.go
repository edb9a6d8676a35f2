package domain

// Mode is one video mode supported by a monitor.
type Mode struct {
	ID              string
	Width           int
	Height          int
	RefreshRate     float64
	PreferredScale  float64
	SupportedScales []float64
}

// SupportsScale reports whether s is one of the mode's supported scales.
func (m Mode) SupportsScale(s float64) bool {
	for _, v := range m.SupportedScales {
		if v == s {
			return true
		}
	}
	return false
}

// Monitor is a physical output. Modes[0] is its current mode.
type Monitor struct {
	Connector string
	Vendor    string
	Product   string
	Serial    string
	Modes     []Mode
}

// CurrentMode returns the mode the monitor is driven with.
func (m Monitor) CurrentMode() (Mode, bool) {
	if len(m.Modes) == 0 {
		return Mode{}, false
	}
	return m.Modes[0], true
}

// LogicalDisplay is a positioned, scaled and rotated surface driven by one
// or more monitors.
type LogicalDisplay struct {
	X         int
	Y         int
	Scale     float64
	Transform Transform
	Primary   bool
	Monitors  []Monitor
}

// HasConnector reports whether one of the display's monitors uses connector.
func (d LogicalDisplay) HasConnector(connector string) bool {
	for _, m := range d.Monitors {
		if m.Connector == connector {
			return true
		}
	}
	return false
}

// Layout is a snapshot of the display configuration. Serial must accompany
// any write of the snapshot back to the service.
type Layout struct {
	Serial   uint32
	Displays []LogicalDisplay
}

// Clone returns a deep copy so transforms never alias the input snapshot.
func (l Layout) Clone() Layout {
	out := Layout{Serial: l.Serial, Displays: make([]LogicalDisplay, len(l.Displays))}
	for i, d := range l.Displays {
		nd := d
		nd.Monitors = make([]Monitor, len(d.Monitors))
		for j, m := range d.Monitors {
			nm := m
			nm.Modes = make([]Mode, len(m.Modes))
			for k, mode := range m.Modes {
				nmode := mode
				nmode.SupportedScales = append([]float64(nil), mode.SupportedScales...)
				nm.Modes[k] = nmode
			}
			nd.Monitors[j] = nm
		}
		out.Displays[i] = nd
	}
	return out
}

// FindConnector returns the index of the display and monitor driving
// connector.
func (l Layout) FindConnector(connector string) (display, monitor int, ok bool) {
	for i, d := range l.Displays {
		for j, m := range d.Monitors {
			if m.Connector == connector {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}
