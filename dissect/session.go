package dissect

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket/layers"
	"github.com/pkg/errors"
	"github.com/rigado/btdump"
	"github.com/rigado/btdump/bthid"
	"github.com/rigado/btdump/hci"
	"github.com/rigado/btdump/l2cap"
	"github.com/rigado/btdump/sdp"
	"github.com/rigado/btdump/usbmon"
)

// H4 link types. gopacket has no names for these.
const (
	LinkTypeH4     layers.LinkType = 187
	LinkTypeH4Phdr layers.LinkType = 201
)

// Stats counts what a session has processed since the last Run started.
type Stats struct {
	Records   int // records read, including failures
	Transfers int // records printed
	Failures  int // lines that did not parse
	Dissected int // records handed to a protocol decoder
}

// Session dissects one capture at a time. Channel bindings learned from
// L2CAP signaling live in the session and are cleared at the start of each
// Run, so separate captures never see each other's channels.
type Session struct {
	out      io.Writer
	format   string
	bufSize  int
	bindBoth bool
	logger   btdump.Logger

	acl    *l2cap.Decoder
	render renderer
	data   []byte
	decode bytes.Buffer
	stats  Stats
}

// NewSession returns a session configured by opts.
func NewSession(opts ...btdump.Option) (*Session, error) {
	s := &Session{
		out:      os.Stdout,
		format:   btdump.FormatText,
		bufSize:  btdump.DefaultBufferSize,
		bindBoth: true,
		logger:   btdump.GetLogger(),
	}
	if err := s.Option(opts...); err != nil {
		return nil, err
	}
	s.reset(s.out)
	return s, nil
}

// Option applies opts in order and stops at the first error.
func (s *Session) Option(opts ...btdump.Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns the counters of the current or most recent Run.
func (s *Session) Stats() Stats {
	return s.stats
}

// Channels exposes the channel bindings of the current capture.
func (s *Session) Channels() *l2cap.Channels {
	return s.acl.Channels()
}

func (s *Session) reset(w io.Writer) {
	ch := l2cap.NewChannels(s.bindBoth)
	s.acl = l2cap.NewDecoder(ch, s.logger)
	s.acl.Handle(l2cap.PSMSDP, l2cap.HandlerFunc(sdp.DecodePDU))
	s.acl.Handle(l2cap.PSMHIDControl, l2cap.HandlerFunc(bthid.Decode))
	s.acl.Handle(l2cap.PSMHIDInterrupt, l2cap.HandlerFunc(bthid.Decode))

	s.render = newRenderer(s.format, w)
	if len(s.data) != s.bufSize {
		s.data = make([]byte, s.bufSize)
	}
	s.stats = Stats{}
}

// Run reads every record of r and writes the trace to the session output.
// name identifies the capture in diagnostics. The capture format is
// detected from its first bytes. Errors reading the input are returned
// wrapped in btdump.ErrOpenSource; malformed lines are reported in the
// trace and skipped.
func (s *Session) Run(ctx context.Context, name string, r io.Reader) (err error) {
	bw := bufio.NewWriter(s.out)
	s.reset(bw)
	defer func() {
		if ferr := bw.Flush(); err == nil && ferr != nil {
			err = errors.Wrap(ferr, "write trace")
		}
		s.render = newRenderer(s.format, s.out)
	}()

	log := s.logger.ChildLogger(map[string]interface{}{"source": name})

	src, err := usbmon.OpenSource(r)
	if err != nil {
		var lt *usbmon.LinkTypeError
		if errors.As(err, &lt) && (lt.LinkType == LinkTypeH4 || lt.LinkType == LinkTypeH4Phdr) {
			err = s.runH4(ctx, log, lt.LinkType, lt.Reader)
			s.done(log)
			return err
		}
		if errors.Is(err, btdump.ErrUnsupportedLinkType) {
			return errors.Wrap(err, name)
		}
		return errors.Wrapf(btdump.ErrOpenSource, "%s: %v", name, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var t usbmon.Transfer
		err := src.Next(&t, s.data)
		if err == io.EOF {
			break
		}
		s.stats.Records++

		var pe *usbmon.ParseError
		switch {
		case errors.As(err, &pe):
			s.stats.Failures++
			log.Debugf("line=%d code=%d: %v", src.Line(), pe.Code, pe)
			if err := s.emit(failureRecord(src.Line(), pe)); err != nil {
				return err
			}
			continue
		case err != nil:
			return errors.Wrapf(btdump.ErrOpenSource, "%s: record %d: %v", name, src.Line(), err)
		}

		if err := s.dissect(src.Line(), &t, s.data); err != nil {
			return err
		}
	}

	s.done(log)
	return nil
}

func (s *Session) done(log btdump.Logger) {
	log.Infof("lines=%d transfers=%d failures=%d dissected=%d",
		s.stats.Records, s.stats.Transfers, s.stats.Failures, s.stats.Dissected)
}

// Dissect prints one transfer: its summary line followed by whatever the
// classified layer decodes from its payload. data is the buffer the
// transfer was read into.
func (s *Session) Dissect(t *usbmon.Transfer, data []byte) error {
	s.stats.Records++
	return s.dissect(s.stats.Records, t, data)
}

func (s *Session) dissect(line int, t *usbmon.Transfer, data []byte) error {
	s.stats.Transfers++
	rec := transferRecord(line, t, t.Format(data))

	layer := Classify(t)
	if layer != LayerNone {
		s.decode.Reset()
		p := t.Payload(data)
		switch layer {
		case LayerHCICommand:
			hci.DecodeCommand(&s.decode, p)
		case LayerHCIEvent:
			hci.DecodeEvent(&s.decode, p)
		case LayerL2CAP:
			s.acl.Decode(&s.decode, p)
		}
		s.stats.Dissected++
		rec.Layer = layer.String()
		rec.Decode = lines(s.decode.Bytes())
	}
	return s.emit(rec)
}

func (s *Session) emit(rec *record) error {
	if s.render == nil {
		s.render = newRenderer(s.format, s.out)
	}
	return s.render.render(rec)
}

// runH4 dissects a capture of H4 framed HCI packets. With the pseudo-header
// link type each packet starts with a 32-bit direction word, 0 for packets
// the host sent and 1 for packets it received.
func (s *Session) runH4(ctx context.Context, log btdump.Logger, lt layers.LinkType, r usbmon.PacketReader) error {
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		pkt, ci, err := r.ReadPacketData()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(btdump.ErrOpenSource, "packet %d: %v", n, err)
		}
		s.stats.Records++

		dir := "H4"
		if lt == LinkTypeH4Phdr {
			if len(pkt) < 4 {
				log.Debugf("packet=%d: short pseudo-header (%d bytes)", n, len(pkt))
				s.stats.Failures++
				continue
			}
			dir = "H4>"
			if binary.BigEndian.Uint32(pkt) != 0 {
				dir = "H4<"
			}
			pkt = pkt[4:]
		}
		if len(pkt) > s.bufSize {
			pkt = pkt[:s.bufSize]
		}

		sec, usec := ci.Timestamp.Unix(), ci.Timestamp.Nanosecond()/1000
		rec := &record{
			Line:      n,
			ID:        fmt.Sprintf("%016x", uint64(n)),
			Timestamp: fmt.Sprintf("%d.%06d", sec, usec),
			Event:     dir,
			Summary:   fmt.Sprintf("%016x %d.%06d %s %d", uint64(n), sec, usec, dir, len(pkt)),
			Layer:     "h4",
		}

		s.decode.Reset()
		hci.DecodeH4(&s.decode, pkt, s.acl.Decode)
		rec.Decode = lines(s.decode.Bytes())
		s.stats.Transfers++
		s.stats.Dissected++
		if err := s.emit(rec); err != nil {
			return err
		}
	}
}
