package imaging

import (
	"errors"

	"github.com/rs/zerolog"
)

// Errors returned by Processor operations. They are wrapped with context, so
// match them with errors.Is.
var (
	ErrNoImage         = errors.New("no image")
	ErrNotFound        = errors.New("image not found")
	ErrDecode          = errors.New("cannot decode image")
	ErrInvalidSize     = errors.New("invalid target size")
	ErrInvalidCropBox  = errors.New("invalid crop box")
	ErrUnknownLayout   = errors.New("unknown array layout")
	ErrUnsupportedRank = errors.New("unsupported array rank")
	ErrEmptyPath       = errors.New("empty destination path")
	ErrDirNotFound     = errors.New("directory not found")
	ErrInvalidQuality  = errors.New("invalid quality")
)

// Processor runs the decode, transform, convert and encode steps.
//
// Every method reports failures twice: once as a warning on the processor's
// logger and once as the returned error. No method panics on bad input, so a
// caller working through many images can skip a bad one and continue.
//
// A Processor holds no per-image state and may be shared between goroutines.
type Processor struct {
	log       zerolog.Logger
	resampler Resampler
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger failures are reported to. The default discards
// everything.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Processor) {
		p.log = l.With().Str("component", "imaging").Logger()
	}
}

// WithResampler replaces the default Lanczos resampler.
func WithResampler(r Resampler) Option {
	return func(p *Processor) {
		if r != nil {
			p.resampler = r
		}
	}
}

// New returns a Processor with the given options applied.
func New(opts ...Option) *Processor {
	p := &Processor{
		log:       zerolog.Nop(),
		resampler: LanczosResampler{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) fail(op string, err error) error {
	p.log.Warn().Err(err).Str("op", op).Msg("image operation failed")
	return err
}
