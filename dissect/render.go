package dissect

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/rigado/btdump"
	"github.com/rigado/btdump/usbmon"
)

// record is one unit of trace output: a transfer or H4 frame with its
// decoded lines, or a parse failure.
type record struct {
	Line      int      `json:"line"`
	ID        string   `json:"id,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
	Event     string   `json:"event,omitempty"`
	Summary   string   `json:"summary,omitempty"`
	Layer     string   `json:"layer,omitempty"`
	Decode    []string `json:"decode,omitempty"`
	Error     string   `json:"error,omitempty"`
	Code      int      `json:"code,omitempty"`
}

type renderer interface {
	render(r *record) error
}

func newRenderer(format string, w io.Writer) renderer {
	if format == btdump.FormatJSON {
		return &jsonRenderer{enc: jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)}
	}
	return &textRenderer{w: w}
}

type textRenderer struct {
	w io.Writer
}

// render writes the summary line, then for a dissected record the decoded
// lines followed by an empty line. A failure replaces the summary with a diagnostic line.
func (r *textRenderer) render(rec *record) error {
	if rec.Error != "" {
		_, err := fmt.Fprintf(r.w, " .. %s\n", rec.Error)
		return err
	}
	if _, err := fmt.Fprintf(r.w, "%s\n", rec.Summary); err != nil {
		return err
	}
	if rec.Layer == "" {
		return nil
	}
	for _, l := range rec.Decode {
		if _, err := fmt.Fprintf(r.w, "%s\n", l); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.w)
	return err
}

type jsonRenderer struct {
	enc *jsoniter.Encoder
}

func (r *jsonRenderer) render(rec *record) error {
	return r.enc.Encode(rec)
}

func transferRecord(line int, t *usbmon.Transfer, summary string) *record {
	return &record{
		Line:      line,
		ID:        fmt.Sprintf("%016x", t.ID),
		Timestamp: fmt.Sprintf("%d.%06d", t.TsSec, t.TsUsec),
		Event:     t.Type.String(),
		Summary:   summary,
	}
}

func failureRecord(line int, err *usbmon.ParseError) *record {
	return &record{
		Line:  line,
		Error: err.Error(),
		Code:  err.Code,
	}
}

// lines splits decoder output into lines, dropping the final newline.
func lines(b []byte) []string {
	s := strings.TrimSuffix(string(b), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
