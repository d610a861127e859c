package imaging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/moby/sys/atomicwriter"
)

// DefaultQuality is the JPEG quality used when the caller has no preference.
const DefaultQuality = 95

// Save writes g to dst as a JPEG at the given quality (0-100, higher keeps
// more detail). An existing file at dst is replaced.
//
// The parent directory of dst must already exist; it is never created. An
// empty dst, a missing directory or an out-of-range quality is reported and
// nothing is written.
func (p *Processor) Save(g *Grid, dst string, quality int) error {
	if g == nil {
		return p.fail("save", ErrNoImage)
	}
	if dst == "" {
		return p.fail("save", ErrEmptyPath)
	}
	dir := filepath.Dir(dst)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return p.fail("save", fmt.Errorf("%w: %q", ErrDirNotFound, dir))
	}
	if quality < 0 || quality > 100 {
		return p.fail("save", fmt.Errorf("%w: %d not in 0..100", ErrInvalidQuality, quality))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, g.img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return p.fail("save", fmt.Errorf("failed to encode image: %w", err))
	}
	if err := atomicwriter.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return p.fail("save", fmt.Errorf("failed to write image: %w", err))
	}

	p.log.Debug().Str("path", dst).Int("quality", quality).Int("bytes", buf.Len()).Msg("saved image")
	return nil
}
