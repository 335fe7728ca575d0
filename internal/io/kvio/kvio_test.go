package kvio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/humandbs/humcat/internal/io/kvio"
	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	store, err := kvio.New(t.TempDir())
	assert.NoError(t, err)
	assert.NoError(t, store.Open())
	defer store.Close()

	store.Set("doi:some title", []byte(`{"doi":"10.1000/x"}`))

	// buffered writes are visible before the flush
	got, err := store.Get("doi:some title")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"doi":"10.1000/x"}`), got)
}

func TestGetMissing(t *testing.T) {
	store, err := kvio.New(t.TempDir())
	assert.NoError(t, err)
	assert.NoError(t, store.Open())
	defer store.Close()

	got, err := store.Get("absent")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

// The cache is soft state: a corrupt store is wiped and rebuilt from
// empty instead of failing the run.
func TestOpenCorruptStore(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "MANIFEST"),
		[]byte("not a manifest"), 0644)
	assert.NoError(t, err)

	store, err := kvio.New(dir)
	assert.NoError(t, err)
	assert.NoError(t, store.Open())
	defer store.Close()

	// rebuilt from empty, and writable again
	got, err := store.Get("doi:some title")
	assert.NoError(t, err)
	assert.Nil(t, got)

	store.Set("doi:some title", []byte(`{"doi":"10.1000/x"}`))
	got, err = store.Get("doi:some title")
	assert.NoError(t, err)
	assert.NotNil(t, got)
}

// Close flushes once; a reopened store sees the previous run's writes.
func TestFlushSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := kvio.New(dir)
	assert.NoError(t, err)
	assert.NoError(t, store.Open())
	store.Set("jga:JGAS000114", []byte(`["JGAD000123"]`))
	assert.NoError(t, store.Close())

	store, err = kvio.New(dir)
	assert.NoError(t, err)
	assert.NoError(t, store.Open())
	defer store.Close()

	got, err := store.Get("jga:JGAS000114")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`["JGAD000123"]`), got)
}
