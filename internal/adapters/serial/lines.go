package serial

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/ports"
)

const maxLineLen = 4096

// LineSource turns a byte stream of sensor lines into samples. A read that
// returns no data and no error (a serial timeout) yields ports.ErrNoSample.
type LineSource struct {
	r       io.Reader
	closer  io.Closer
	buf     []byte
	pending []byte
	eof     bool
	now     func() time.Time
}

// NewLineSource reads from r. If r is an io.Closer, Close closes it.
func NewLineSource(r io.Reader) *LineSource {
	s := &LineSource{
		r:   r,
		buf: make([]byte, 256),
		now: time.Now,
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Next returns the next parsed sample. io.EOF is returned once the stream
// is exhausted.
func (s *LineSource) Next(ctx context.Context) (domain.AxisSample, error) {
	if err := ctx.Err(); err != nil {
		return domain.AxisSample{}, err
	}
	line, err := s.readLine()
	if err != nil {
		return domain.AxisSample{}, err
	}
	sample, err := ParseLine(line)
	if err != nil {
		return domain.AxisSample{}, err
	}
	sample.Received = s.now()
	return sample, nil
}

func (s *LineSource) readLine() (string, error) {
	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			line := string(s.pending[:i])
			s.pending = s.pending[i+1:]
			return line, nil
		}
		if s.eof {
			if len(s.pending) > 0 {
				line := string(s.pending)
				s.pending = nil
				return line, nil
			}
			return "", io.EOF
		}
		if len(s.pending) > maxLineLen {
			s.pending = nil
			return "", ports.ErrSensorRead
		}

		n, err := s.r.Read(s.buf)
		s.pending = append(s.pending, s.buf[:n]...)
		switch {
		case errors.Is(err, io.EOF):
			s.eof = true
		case err != nil:
			return "", err
		case n == 0:
			return "", ports.ErrNoSample
		}
	}
}

func (s *LineSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

var _ ports.SampleSource = (*LineSource)(nil)
