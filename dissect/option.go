package dissect

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rigado/btdump"
)

// SetBufferSize sets the capacity of the per-record payload buffer.
func (s *Session) SetBufferSize(n int) error {
	if n <= 0 {
		return errors.Wrapf(btdump.ErrInvalidConfig, "buffer size %d", n)
	}
	s.bufSize = n
	return nil
}

// SetFormat selects the trace format, text or json.
func (s *Session) SetFormat(format string) error {
	switch format {
	case btdump.FormatText, btdump.FormatJSON:
		s.format = format
		s.render = nil
		return nil
	}
	return errors.Wrapf(btdump.ErrUnknownFormat, "%q", format)
}

// SetLogger sets the diagnostics logger.
func (s *Session) SetLogger(l btdump.Logger) error {
	if l == nil {
		return errors.Wrap(btdump.ErrInvalidConfig, "nil logger")
	}
	s.logger = l
	return nil
}

// SetOutput sets the trace writer.
func (s *Session) SetOutput(w io.Writer) error {
	if w == nil {
		return errors.Wrap(btdump.ErrInvalidConfig, "nil output")
	}
	s.out = w
	s.render = nil
	return nil
}

// SetBindBothChannels controls whether successful L2CAP connections bind
// the source CID as well as the destination CID. It takes effect at the
// next Run.
func (s *Session) SetBindBothChannels(both bool) error {
	s.bindBoth = both
	return nil
}
