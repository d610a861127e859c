package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-ingest-mcp/internal/digest"
	"github.com/ironsheep/image-ingest-mcp/internal/imaging"
)

// DefaultBaseURL is the digest-keyed image endpoint used when none is configured.
const DefaultBaseURL = "http://127.0.0.1:8080/images/md5/"

// ErrStatus is returned when the store answers with anything but 200 OK.
var ErrStatus = errors.New("unexpected status code")

// Fetcher loads images from a store that serves them at baseURL+digest.
type Fetcher struct {
	baseURL string
	client  *http.Client
	proc    *imaging.Processor
	log     zerolog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithBaseURL sets the prefix the digest is appended to.
func WithBaseURL(u string) Option {
	return func(f *Fetcher) {
		if u != "" {
			f.baseURL = u
		}
	}
}

// WithHTTPClient sets the client used for requests. Timeouts configured on
// the client apply to every fetch.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) {
		f.log = l.With().Str("component", "remote").Logger()
	}
}

// New returns a Fetcher that decodes through proc.
func New(proc *imaging.Processor, opts ...Option) *Fetcher {
	f := &Fetcher{
		baseURL: DefaultBaseURL,
		client:  http.DefaultClient,
		proc:    proc,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// At returns a copy of f that fetches from baseURL instead.
func (f *Fetcher) At(baseURL string) *Fetcher {
	c := *f
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return &c
}

// URL returns the address of d. The digest is appended as is, without
// escaping; a value containing '/', '?' or '#' changes the request path.
func (f *Fetcher) URL(d digest.Digest) string {
	return f.baseURL + string(d)
}

// Fetch downloads the raw bytes stored under d.
func (f *Fetcher) Fetch(ctx context.Context, d digest.Digest) ([]byte, error) {
	url := f.URL(d)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, f.fail(url, fmt.Errorf("error creating request: %w", err))
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, f.fail(url, fmt.Errorf("error executing request: %w", err))
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, f.fail(url, fmt.Errorf("%w: %d", ErrStatus, res.StatusCode))
	}

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, f.fail(url, fmt.Errorf("error reading response: %w", err))
	}

	f.log.Debug().Str("url", url).Int("bytes", len(buf)).Msg("fetched image")
	return buf, nil
}

// LoadByDigest fetches the image stored under d and decodes it, resizing to
// size when it is non-nil.
//
// Every failure, whether transport, HTTP status, body read or decode, is
// logged and returned as an error.
func (f *Fetcher) LoadByDigest(ctx context.Context, d digest.Digest, size *imaging.Dimensions) (*imaging.Grid, error) {
	buf, err := f.Fetch(ctx, d)
	if err != nil {
		return nil, err
	}
	return f.proc.DecodeBytes(buf, size)
}

func (f *Fetcher) fail(url string, err error) error {
	f.log.Warn().Err(err).Str("url", url).Msg("remote fetch failed")
	return err
}
