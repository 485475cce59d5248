package source

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func openTestManifest(t *testing.T) *Manifest {
	t.Helper()
	m, err := OpenManifest(context.Background(), filepath.Join(t.TempDir(), "sources.db"))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestManifest_RecordAndGet(t *testing.T) {
	ctx := context.Background()
	m := openTestManifest(t)

	fetched := time.Date(2020, time.July, 6, 12, 0, 0, 0, time.UTC)
	e, err := m.Record(ctx, Entry{
		Name:      "ppp",
		URL:       "https://s3.amazonaws.com/ppp.sba.gov/foia_150k_plus.csv",
		Path:      "input_files/foia_150k_plus.csv",
		ETag:      `"abc"`,
		Bytes:     1024,
		FetchedAt: fetched,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)

	got, err := m.Get(ctx, "ppp")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, `"abc"`, got.ETag)
	assert.Equal(t, int64(1024), got.Bytes)
	assert.True(t, fetched.Equal(got.FetchedAt))
}

func TestManifest_RecordReplaces(t *testing.T) {
	ctx := context.Background()
	m := openTestManifest(t)

	first, err := m.Record(ctx, Entry{Name: "naics", URL: "u", Path: "p", ETag: "1"})
	require.NoError(t, err)
	second, err := m.Record(ctx, Entry{Name: "naics", URL: "u", Path: "p", ETag: "2"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	entries, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2", entries[0].ETag)
	assert.Equal(t, second.ID, entries[0].ID)
}

func TestManifest_GetMissing(t *testing.T) {
	got, err := openTestManifest(t).Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManifest_ListOrdered(t *testing.T) {
	ctx := context.Background()
	m := openTestManifest(t)
	for _, name := range []string{"ppp", "naics"} {
		_, err := m.Record(ctx, Entry{Name: name, URL: "u", Path: "p"})
		require.NoError(t, err)
	}

	entries, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "naics", entries[0].Name)
	assert.Equal(t, "ppp", entries[1].Name)
}

func TestManifest_ConcurrentRecord(t *testing.T) {
	ctx := context.Background()
	m := openTestManifest(t)

	var g errgroup.Group
	for i := range 100 {
		g.Go(func() error {
			_, err := m.Record(ctx, Entry{Name: fmt.Sprintf("s%d", i%10), URL: "u", Path: "p", Bytes: int64(i)})
			return err
		})
	}
	require.NoError(t, g.Wait())

	entries, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}

func TestWithPragmas(t *testing.T) {
	assert.Equal(t,
		"a.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		withPragmas("a.db"))
	assert.Equal(t,
		"file:a.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		withPragmas("file:a.db?mode=rwc"))
}
