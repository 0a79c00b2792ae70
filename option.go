package btdump

import "io"

// Output formats understood by the dissector.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultBufferSize is the per-line payload capacity.
const DefaultBufferSize = 4096

// DissectorOption is implemented by the dissector session to accept
// configuration options.
type DissectorOption interface {
	SetBufferSize(n int) error
	SetFormat(format string) error
	SetLogger(l Logger) error
	SetOutput(w io.Writer) error
	SetBindBothChannels(both bool) error
}

// An Option is a configuration function, which configures the dissector.
type Option func(DissectorOption) error

// OptBufferSize sets the capacity of the per-line payload buffer. Captured
// bytes beyond it are dropped as if the capture were short.
func OptBufferSize(n int) Option {
	return func(opt DissectorOption) error {
		return opt.SetBufferSize(n)
	}
}

// OptFormat selects text or json output.
func OptFormat(format string) Option {
	return func(opt DissectorOption) error {
		return opt.SetFormat(format)
	}
}

// OptLogger overrides the diagnostics logger.
func OptLogger(l Logger) Option {
	return func(opt DissectorOption) error {
		return opt.SetLogger(l)
	}
}

// OptOutput sets where the trace is written.
func OptOutput(w io.Writer) Option {
	return func(opt DissectorOption) error {
		return opt.SetOutput(w)
	}
}

// OptBindBothChannels controls whether a successful L2CAP connection binds
// the source CID as well as the destination CID.
func OptBindBothChannels(both bool) Option {
	return func(opt DissectorOption) error {
		return opt.SetBindBothChannels(both)
	}
}
