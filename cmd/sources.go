package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ppp-cli/internal/config"
	"github.com/sells-group/ppp-cli/internal/fetcher"
	"github.com/sells-group/ppp-cli/internal/source"
)

// sourceSpecs returns the PPP loan and NAICS code source specs from config.
func sourceSpecs(c *config.Config) (loans, codes source.Spec) {
	loans = source.Spec{Name: "ppp", URL: c.PPP.URL, Path: c.PPP.Path, HasHeader: c.PPP.HasHeader}
	codes = source.Spec{Name: "naics", URL: c.NAICS.URL, Path: c.NAICS.Path, HasHeader: c.NAICS.HasHeader}
	return loans, codes
}

// openManifest opens the source manifest, creating its directory if needed.
func openManifest(ctx context.Context, c *config.Config) (*source.Manifest, error) {
	if err := os.MkdirAll(filepath.Dir(c.Source.ManifestPath), 0o755); err != nil {
		return nil, eris.Wrapf(err, "create manifest dir for %s", c.Source.ManifestPath)
	}
	return source.OpenManifest(ctx, c.Source.ManifestPath)
}

// newCache builds a download cache from config. The returned manifest must be
// closed by the caller.
func newCache(ctx context.Context, c *config.Config, refresh bool) (*source.Cache, *source.Manifest, error) {
	m, err := openManifest(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  c.Source.UserAgent,
		Timeout:    time.Duration(c.Source.TimeoutSecs) * time.Second,
		MaxRetries: c.Source.MaxRetries,
	})
	return source.NewCache(f, m, refresh), m, nil
}

// loadDataset prepares both sources and enriches the loans.
func loadDataset(ctx context.Context, c *config.Config, refresh bool) (*source.Dataset, error) {
	cache, m, err := newCache(ctx, c, refresh)
	if err != nil {
		return nil, err
	}
	defer m.Close() //nolint:errcheck

	loans, codes := sourceSpecs(c)
	return cache.Load(ctx, loans, codes)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the PPP and NAICS source files if missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("fetch"); err != nil {
			return err
		}
		refresh, _ := cmd.Flags().GetBool("refresh")

		cache, m, err := newCache(cmd.Context(), cfg, refresh)
		if err != nil {
			return err
		}
		defer m.Close() //nolint:errcheck

		loans, codes := sourceSpecs(cfg)
		if err := cache.Prepare(cmd.Context(), loans, codes); err != nil {
			return eris.Wrap(err, "fetch")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sources ready")
		return nil
	},
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List downloaded source files",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openManifest(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer m.Close() //nolint:errcheck

		entries, err := m.List(cmd.Context())
		if err != nil {
			return err
		}
		return printSources(cmd.OutOrStdout(), entries)
	},
}

func printSources(out io.Writer, entries []source.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "No sources downloaded yet")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPATH\tBYTES\tETAG\tFETCHED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", e.Name, e.Path, e.Bytes, e.ETag, e.FetchedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func init() {
	fetchCmd.Flags().Bool("refresh", false, "re-download sources whose ETag changed")
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(sourcesCmd)
}
