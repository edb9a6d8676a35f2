package serial

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/ports"
)

// ParseLine decodes "<x>,<y>,<z>". Blank or malformed lines wrap
// ports.ErrSensorRead.
func ParseLine(line string) (domain.AxisSample, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return domain.AxisSample{}, fmt.Errorf("%w: blank line", ports.ErrSensorRead)
	}
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return domain.AxisSample{}, fmt.Errorf("%w: want 3 fields, got %d in %q", ports.ErrSensorRead, len(parts), line)
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.AxisSample{}, fmt.Errorf("%w: field %d in %q: %v", ports.ErrSensorRead, i, line, err)
		}
		vals[i] = v
	}
	return domain.AxisSample{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}
