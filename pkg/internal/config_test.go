package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/require"
)

func TestConfigStore(t *testing.T) {
	spec.Run(t, "ConfigStore", testConfigStore, spec.Report(report.Terminal{}))
}

func testConfigStore(t *testing.T, when spec.G, it spec.S) {
	var store ConfigStore

	it.Before(func() {
		store = NewConfigStore(filepath.Join(t.TempDir(), "nested", ConfigFile))
	})

	when("nothing has been saved", func() {
		it("reports the directory as absent", func() {
			dir, found, err := store.Load()
			require.NoError(t, err)
			require.False(t, found)
			require.Empty(t, dir)
		})
	})

	when("a directory has been saved", func() {
		it("returns it", func() {
			require.NoError(t, store.Save("/srv/archives"))

			dir, found, err := store.Load()
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, "/srv/archives", dir)
		})

		it("stores nothing but the path", func() {
			require.NoError(t, store.Save("/srv/archives"))

			data, err := os.ReadFile(store.Path)
			require.NoError(t, err)
			require.Equal(t, "/srv/archives", string(data))
		})

		it("overwrites the previous value", func() {
			require.NoError(t, store.Save("/first"))
			require.NoError(t, store.Save("/second"))

			dir, _, err := store.Load()
			require.NoError(t, err)
			require.Equal(t, "/second", dir)
		})
	})

	when("the file has surrounding whitespace", func() {
		it("trims it", func() {
			require.NoError(t, store.Save("  /srv/archives\n"))

			dir, _, err := store.Load()
			require.NoError(t, err)
			require.Equal(t, "/srv/archives", dir)
		})
	})

	when("no path is given", func() {
		it("uses the XDG config location", func() {
			require.Equal(t, DefaultConfigPath(), NewConfigStore("").Path)
			require.Equal(t, ConfigFile, filepath.Base(DefaultConfigPath()))
		})
	})
}
