package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/quadtree"
	"github.com/outofforest/quadtree/packed"
	"github.com/outofforest/quadtree/persistent"
	"github.com/outofforest/quadtree/test"
	"github.com/outofforest/quadtree/textio"
)

func writeRaw(t *testing.T, dir string, values []int) string {
	sb := strings.Builder{}
	for i, v := range values {
		if i > 0 {
			// Raw images might be separated by any whitespace.
			sb.WriteString([]string{"\n", " ", "\t\n"}[i%3])
		}
		sb.WriteString(strconv.Itoa(v))
	}

	path := filepath.Join(dir, "image.raw")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path
}

func openMemoryStore(stores map[string]*persistent.MemoryStore) OpenStoreFunc {
	return func(path string) (persistent.Store, func(), error) {
		s := persistent.NewMemoryStore()
		stores[path] = s
		return s, func() {}, nil
	}
}

func TestCompressUncompress(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"--packed"},
		{"--parallel-depth", "2"},
		{"--packed", "--parallel-depth", "3"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			requireT := require.New(t)
			ctx := test.NewContext(t)
			dir := t.TempDir()

			values := test.Blocks(32, 4, 7)
			rawPath := writeRaw(t, dir, values)
			compressedPath := filepath.Join(dir, "image.qt")
			uncompressedPath := filepath.Join(dir, "image.out")

			stdout := &bytes.Buffer{}
			requireT.NoError(run(ctx, append([]string{"compress", rawPath, compressedPath}, args...), stdout,
				OpenFileStore))
			requireT.Contains(stdout.String(), "Raw image size: 1024\n")
			requireT.Contains(stdout.String(), "Compressed image size: ")
			requireT.Contains(stdout.String(), "Compression %: ")

			stdout.Reset()
			requireT.NoError(run(ctx, append([]string{"uncompress", compressedPath, uncompressedPath}, args...),
				stdout, OpenFileStore))
			requireT.Equal("Uncompressed image: 32x32\n", stdout.String())

			f, err := os.Open(uncompressedPath)
			requireT.NoError(err)
			defer f.Close()

			values2, err := textio.ReadRaw(f)
			requireT.NoError(err)
			requireT.Equal(values, values2)
		})
	}
}

func TestCompressOutputFormat(t *testing.T) {
	requireT := require.New(t)
	ctx := test.NewContext(t)

	rawPath := writeRaw(t, t.TempDir(), []int{1, 2, 3, 4})
	stores := map[string]*persistent.MemoryStore{}

	stdout := &bytes.Buffer{}
	requireT.NoError(run(ctx, []string{"compress", rawPath, "image.qt"}, stdout, openMemoryStore(stores)))
	requireT.Equal("Raw image size: 4\nCompressed image size: 6\nCompression %: -50.00\n", stdout.String())

	requireT.Contains(stores, "image.qt")
	requireT.Equal("4\n-1\n1\n2\n3\n4\n", string(stores["image.qt"].Synced()))
	requireT.Equal(stores["image.qt"].Bytes(), stores["image.qt"].Synced())
}

func TestCompressPackedOutput(t *testing.T) {
	requireT := require.New(t)
	ctx := test.NewContext(t)
	dir := t.TempDir()

	rawPath := writeRaw(t, dir, test.Uniform(8, 200))
	compressedPath := filepath.Join(dir, "image.qtp")

	requireT.NoError(run(ctx, []string{"--packed", "compress", rawPath, compressedPath}, &bytes.Buffer{},
		OpenFileStore))

	data, err := os.ReadFile(compressedPath)
	requireT.NoError(err)

	count, values, err := packed.Unmarshal(data)
	requireT.NoError(err)
	requireT.Equal(64, count)
	requireT.Equal([]int{200}, values)
}

func TestDryRun(t *testing.T) {
	requireT := require.New(t)
	ctx := test.NewContext(t)

	rawPath := writeRaw(t, t.TempDir(), []int{1, 2, 3, 4})
	stores := map[string]*persistent.MemoryStore{}

	requireT.NoError(run(ctx, []string{"compress", "--dry-run", rawPath, "image.qt"}, &bytes.Buffer{},
		openMemoryStore(stores)))
	requireT.Empty(stores)
}

func TestLoggerFlags(t *testing.T) {
	requireT := require.New(t)
	ctx := test.NewContext(t)

	rawPath := writeRaw(t, t.TempDir(), []int{1, 2, 3, 4})
	stores := map[string]*persistent.MemoryStore{}

	requireT.NoError(run(ctx, []string{"--log-format", "json", "-v", "compress", rawPath, "image.qt"},
		&bytes.Buffer{}, openMemoryStore(stores)))
	requireT.Equal("4\n-1\n1\n2\n3\n4\n", string(stores["image.qt"].Synced()))
}

func TestUncompressRasterTooLarge(t *testing.T) {
	requireT := require.New(t)
	ctx := test.NewContext(t)
	dir := t.TempDir()

	compressedPath := filepath.Join(dir, "image.qt")
	requireT.NoError(os.WriteFile(compressedPath, []byte("4611686018427387904\n7\n"), 0o600))

	stores := map[string]*persistent.MemoryStore{}
	err := run(ctx, []string{"uncompress", compressedPath, "image.raw"}, &bytes.Buffer{}, openMemoryStore(stores))
	requireT.ErrorIs(err, quadtree.ErrConfig)
	requireT.Empty(stores)
}

func TestView(t *testing.T) {
	requireT := require.New(t)
	ctx := test.NewContext(t)
	dir := t.TempDir()

	compressedPath := filepath.Join(dir, "image.qt")
	requireT.NoError(os.WriteFile(compressedPath, []byte("16\n-1\n1\n-1\n2\n3\n2\n2\n5\n7\n"), 0o600))

	stdout := &bytes.Buffer{}
	requireT.NoError(run(ctx, []string{"view", compressedPath}, stdout, OpenFileStore))
	requireT.Contains(stdout.String(), "Dimension: 4x4\n")
	requireT.Contains(stdout.String(), "Compressed image size: 10\n")
	requireT.Contains(stdout.String(), "QTree: -1 1 -1 2 3 2 2 5 7\n")
}

func TestLenient(t *testing.T) {
	requireT := require.New(t)
	ctx := test.NewContext(t)
	dir := t.TempDir()

	compressedPath := filepath.Join(dir, "image.qt")
	requireT.NoError(os.WriteFile(compressedPath, []byte("4\n-1\n1\n2\n3\n4\n99\n"), 0o600))

	err := run(ctx, []string{"view", compressedPath}, &bytes.Buffer{}, OpenFileStore)
	requireT.ErrorIs(err, quadtree.ErrFormat)

	stdout := &bytes.Buffer{}
	requireT.NoError(run(ctx, []string{"view", "--lenient", compressedPath}, stdout, OpenFileStore))
	requireT.Contains(stdout.String(), "QTree: -1 1 2 3 4\n")
}

func TestErrors(t *testing.T) {
	requireT := require.New(t)
	ctx := test.NewContext(t)
	dir := t.TempDir()

	requireT.ErrorIs(run(ctx, nil, &bytes.Buffer{}, OpenFileStore), ErrUsage)
	requireT.ErrorIs(run(ctx, []string{"compress", "a"}, &bytes.Buffer{}, OpenFileStore), ErrUsage)
	requireT.ErrorIs(run(ctx, []string{"unknown"}, &bytes.Buffer{}, OpenFileStore), ErrUsage)

	err := run(ctx, []string{"compress", filepath.Join(dir, "missing.raw"), filepath.Join(dir, "out")},
		&bytes.Buffer{}, OpenFileStore)
	requireT.True(errors.Is(err, os.ErrNotExist))

	rawPath := writeRaw(t, dir, make([]int, 10))
	err = run(ctx, []string{"compress", rawPath, filepath.Join(dir, "out")}, &bytes.Buffer{}, OpenFileStore)
	requireT.ErrorIs(err, quadtree.ErrConfig)

	truncatedPath := filepath.Join(dir, "truncated.qt")
	requireT.NoError(os.WriteFile(truncatedPath, []byte("4\n-1\n1\n2\n"), 0o600))
	err = run(ctx, []string{"uncompress", truncatedPath, filepath.Join(dir, "out")}, &bytes.Buffer{}, OpenFileStore)
	requireT.ErrorIs(err, quadtree.ErrFormat)
}
