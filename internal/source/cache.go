// Package source materializes the PPP FOIA and NAICS CSV files on local disk
// and loads them into enriched loan records.
package source

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/ppp-cli/internal/fetcher"
)

// Spec describes one remote CSV and where it is kept locally.
type Spec struct {
	Name      string
	URL       string
	Path      string
	HasHeader bool
}

// Cache downloads sources on demand. A file already on disk is used as-is
// unless Refresh is set, in which case it is re-fetched with a conditional GET.
type Cache struct {
	fetcher  fetcher.Fetcher
	manifest *Manifest
	refresh  bool
}

// NewCache returns a Cache. manifest may be nil, in which case ETags are not
// tracked and every refresh is a full download.
func NewCache(f fetcher.Fetcher, manifest *Manifest, refresh bool) *Cache {
	return &Cache{fetcher: f, manifest: manifest, refresh: refresh}
}

// Ensure makes spec.Path exist locally and returns it.
func (c *Cache) Ensure(ctx context.Context, spec Spec) (string, error) {
	log := zap.L().With(zap.String("source", spec.Name))

	_, statErr := os.Stat(spec.Path)
	exists := statErr == nil
	if exists && !c.refresh {
		log.Info("found local source file", zap.String("path", spec.Path))
		return spec.Path, nil
	}
	if statErr != nil && !os.IsNotExist(statErr) {
		return "", eris.Wrapf(statErr, "source: stat %s", spec.Path)
	}

	etag := ""
	if exists && c.manifest != nil {
		prev, err := c.manifest.Get(ctx, spec.Name)
		if err != nil {
			return "", err
		}
		if prev != nil {
			etag = prev.ETag
		}
	}

	if err := os.MkdirAll(filepath.Dir(spec.Path), 0o755); err != nil {
		return "", eris.Wrapf(err, "source: create dir for %s", spec.Path)
	}

	log.Info("downloading source file", zap.String("url", spec.URL))
	start := time.Now()

	body, newETag, changed, err := c.fetcher.DownloadIfChanged(ctx, spec.URL, etag)
	if err != nil {
		return "", eris.Wrapf(err, "source: download %s", spec.Name)
	}
	if !changed {
		log.Info("source not modified", zap.String("etag", etag))
		return spec.Path, nil
	}
	defer body.Close() //nolint:errcheck

	// Partial downloads stay in .part until complete.
	part := spec.Path + ".part"
	n, err := fetcher.WriteFile(part, body)
	if err != nil {
		_ = os.Remove(part)
		return "", eris.Wrapf(err, "source: write %s", spec.Name)
	}
	if err := os.Rename(part, spec.Path); err != nil {
		return "", eris.Wrapf(err, "source: rename %s", part)
	}

	if c.manifest != nil {
		if _, err := c.manifest.Record(ctx, Entry{
			Name:  spec.Name,
			URL:   spec.URL,
			Path:  spec.Path,
			ETag:  newETag,
			Bytes: n,
		}); err != nil {
			return "", err
		}
	}

	log.Info("downloaded source file",
		zap.Int64("bytes", n),
		zap.Duration("elapsed", time.Since(start)),
	)
	return spec.Path, nil
}

// Prepare ensures every spec concurrently.
func (c *Cache) Prepare(ctx context.Context, specs ...Spec) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, spec := range specs {
		g.Go(func() error {
			_, err := c.Ensure(gctx, spec)
			return err
		})
	}
	return g.Wait()
}

// ReadRows reads a local source file. The header is nil when the spec has
// none.
func ReadRows(ctx context.Context, spec Spec) ([]string, [][]string, error) {
	file, err := os.Open(spec.Path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "source: open %s", spec.Path)
	}
	defer file.Close() //nolint:errcheck

	headerCh := make(chan []string, 1)
	rows, err := fetcher.ReadCSV(ctx, file, fetcher.CSVOptions{
		HasHeader:  spec.HasHeader,
		HeaderCh:   headerCh,
		LazyQuotes: true,
	})
	if err != nil {
		return nil, nil, eris.Wrapf(err, "source: read %s", spec.Name)
	}

	var header []string
	select {
	case header = <-headerCh:
	default:
	}
	return header, rows, nil
}
