package usbmon

import (
	"bufio"
	"io"
	"strings"
)

// Source yields transfer events one at a time. Next returns io.EOF once
// the capture is exhausted. A *ParseError is recoverable: the caller may
// report it and call Next again.
type Source interface {
	Next(t *Transfer, data []byte) error
	// Line returns the number of the record most recently read, starting at 1.
	Line() int
}

// TextSource reads usbmon text records, one per line.
type TextSource struct {
	sc   *bufio.Scanner
	line int
}

// maxLineLength bounds a single capture line. usbmon itself never prints
// more than a few hundred characters, but hand-edited captures may carry
// full payloads.
const maxLineLength = 1 << 20

// NewTextSource returns a Source reading text lines from r.
func NewTextSource(r io.Reader) *TextSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineLength)
	return &TextSource{sc: sc}
}

func (s *TextSource) Next(t *Transfer, data []byte) error {
	for s.sc.Scan() {
		s.line++
		line := strings.TrimSpace(s.sc.Text())
		if line == "" {
			continue
		}
		return Parse(line, t, data)
	}
	if err := s.sc.Err(); err != nil {
		return err
	}
	return io.EOF
}

func (s *TextSource) Line() int {
	return s.line
}
