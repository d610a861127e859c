package digest

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
)

// chunkSize is the read size used when streaming a file into the hash.
const chunkSize = 4096

// Length is the number of hex characters in a Digest.
const Length = md5.Size * 2

var (
	ErrEmptyPath     = errors.New("empty path")
	ErrNotFound      = errors.New("file not found")
	ErrInvalidDigest = errors.New("invalid digest")
)

// Digest is the lowercase hex MD5 of a file's raw bytes.
type Digest string

// String implements fmt.Stringer.
func (d Digest) String() string { return string(d) }

// Parse checks that s is 32 lowercase hex characters.
func Parse(s string) (Digest, error) {
	if len(s) != Length {
		return "", fmt.Errorf("%w: %q has %d characters, want %d", ErrInvalidDigest, s, len(s), Length)
	}
	for _, c := range s {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return "", fmt.Errorf("%w: %q is not lowercase hex", ErrInvalidDigest, s)
		}
	}
	return Digest(s), nil
}

// OfReader hashes everything r yields, chunkSize bytes at a time.
func OfReader(r io.Reader) (Digest, error) {
	h := md5.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return Digest(hex.EncodeToString(h.Sum(nil))), nil
}

// Computer hashes files and reports failures to its logger.
type Computer struct {
	log zerolog.Logger
}

// Option configures a Computer.
type Option func(*Computer)

// WithLogger sets the logger failures are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Computer) {
		c.log = l.With().Str("component", "digest").Logger()
	}
}

// New returns a Computer. Without options it logs nothing.
func New(opts ...Option) *Computer {
	c := &Computer{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Of returns the digest of the file at path. Identical bytes give identical
// digests wherever the file lives.
func (c *Computer) Of(path string) (Digest, error) {
	if path == "" {
		return "", c.fail(ErrEmptyPath)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", c.fail(fmt.Errorf("%w: %q", ErrNotFound, path))
		}
		return "", c.fail(fmt.Errorf("failed to open file: %w", err))
	}
	defer f.Close()

	d, err := OfReader(f)
	if err != nil {
		return "", c.fail(fmt.Errorf("failed to read %q: %w", path, err))
	}
	return d, nil
}

func (c *Computer) fail(err error) error {
	c.log.Warn().Err(err).Msg("digest failed")
	return err
}

// Of hashes the file at path without logging.
func Of(path string) (Digest, error) {
	return New().Of(path)
}
