package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/bncsv/pkg/batch"
	"github.com/ssargent/bncsv/pkg/di"
)

// execute runs the root command with a fresh container and an empty home
// directory, returning everything written to stdout.
func execute(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	SetContainer(di.NewContainer())

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRootTakesPathsAlongsideSubcommands(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data.csv")
	writeFile(t, src, "5")

	out, err := execute(t, nil, "-i", "csv", src)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0C, 0x00}, []byte(out))

	out, err = execute(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bncsv")
}

func TestPipeMode(t *testing.T) {
	t.Run("Encode", func(t *testing.T) {
		out, err := execute(t, []byte("12,3.4\n"), "-i", "csv", "-p")
		require.NoError(t, err)
		assert.Equal(t, []byte{0xAE, 0x3A, 0xA5, 0x96, 0x00}, []byte(out))
	})

	t.Run("Decode", func(t *testing.T) {
		out, err := execute(t, []byte{0xAE, 0x3A, 0xA5, 0x96, 0x00}, "-i", "bncsv", "-p")
		require.NoError(t, err)
		assert.Equal(t, "12,3.4\n", out)
	})

	t.Run("Output file", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "out.bncsv")
		_, err := execute(t, []byte("5"), "-i", "csv", "-p", "-o", dst)
		require.NoError(t, err)

		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x0C, 0x00}, data)

		_, err = execute(t, []byte("5"), "-i", "csv", "-p", "-o", dst)
		assert.ErrorIs(t, err, batch.ErrOverwritePrevented)
	})

	t.Run("Unsupported byte", func(t *testing.T) {
		_, err := execute(t, []byte("1;2"), "-i", "csv", "-p")
		assert.Error(t, err)
	})

	t.Run("Paths are rejected", func(t *testing.T) {
		_, err := execute(t, nil, "-i", "csv", "-p", "x.csv")
		assert.ErrorIs(t, err, batch.ErrConfiguration)
	})
}

func TestSingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.csv")
	writeFile(t, src, "1,2\n-3.5,4\n")

	t.Run("To stdout", func(t *testing.T) {
		out, err := execute(t, nil, "-i", "csv", src)
		require.NoError(t, err)
		assert.NotEmpty(t, out)
		assert.NoFileExists(t, filepath.Join(dir, "data.bncsv"))
	})

	t.Run("To file", func(t *testing.T) {
		dst := filepath.Join(dir, "named.bin")
		out, err := execute(t, nil, "-i", "csv", src, "-o", dst)
		require.NoError(t, err)
		assert.Contains(t, out, "Success converting")

		back, err := execute(t, nil, "-i", "bncsv", dst, "-q")
		require.NoError(t, err)
		assert.Equal(t, "1,2\n-3.5,4\n", back)
	})
}

func TestBatchMode(t *testing.T) {
	dir := t.TempDir()
	for i, name := range []string{"a.csv", "b.csv", "nested/c.csv"} {
		writeFile(t, filepath.Join(dir, name), fmt.Sprintf("%d0,1.5\n", i))
	}
	// non-numeric content is not matched by the pattern
	writeFile(t, filepath.Join(dir, "notes.txt"), "hello")

	out, err := execute(t, nil, "-i", "csv", filepath.Join(dir, "**", "*.csv"), "-j", "2")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "Success converting"))
	assert.Contains(t, out, "3 files conversion finished on 2 workers")
	for _, name := range []string{"a.bncsv", "b.bncsv", "nested/c.bncsv"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	t.Run("Overwrite prevented", func(t *testing.T) {
		_, err := execute(t, nil, "-i", "csv", filepath.Join(dir, "*.csv"))
		assert.ErrorIs(t, err, batch.ErrOverwritePrevented)
	})

	t.Run("Decode under output directory", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "decoded")
		out, err := execute(t, nil, "-i", "bncsv", filepath.Join(dir, "**", "*.bncsv"),
			"-o", outDir, "--abs-pathbase", dir, "-q")
		require.NoError(t, err)
		assert.NotContains(t, out, "Success converting")

		data, err := os.ReadFile(filepath.Join(outDir, "nested", "c.csv"))
		require.NoError(t, err)
		assert.Equal(t, "20,1.5\n", string(data))
	})

	t.Run("Absolute inputs need a path base", func(t *testing.T) {
		_, err := execute(t, nil, "-i", "bncsv", filepath.Join(dir, "*.bncsv"), "-o", t.TempDir())
		assert.ErrorIs(t, err, batch.ErrConfiguration)
	})
}

func TestBatchFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.csv"), "1,2\n")
	writeFile(t, filepath.Join(dir, "bad.csv"), "1,x\n")

	out, err := execute(t, nil, "-i", "csv", filepath.Join(dir, "*.csv"))
	assert.ErrorIs(t, err, errFilesFailed)
	assert.Contains(t, out, "Failed converting")
	assert.Contains(t, out, "converted 1, failed 1")
	assert.FileExists(t, filepath.Join(dir, "good.bncsv"))
}

func TestInputErrors(t *testing.T) {
	t.Run("No paths", func(t *testing.T) {
		_, err := execute(t, nil, "-i", "csv")
		assert.ErrorIs(t, err, batch.ErrConfiguration)
	})

	t.Run("No matches", func(t *testing.T) {
		_, err := execute(t, nil, "-i", "csv", filepath.Join(t.TempDir(), "*.csv"))
		assert.ErrorIs(t, err, batch.ErrNoTasks)
	})

	t.Run("Unknown input type", func(t *testing.T) {
		_, err := execute(t, nil, "-i", "json", "x")
		assert.ErrorIs(t, err, batch.ErrConfiguration)
	})

	t.Run("Missing input type", func(t *testing.T) {
		_, err := execute(t, nil, "x.csv")
		assert.Error(t, err)
	})

	t.Run("Write chunk out of range", func(t *testing.T) {
		_, err := execute(t, []byte("1"), "-i", "csv", "-p", "--write-chunk", "1KB")
		assert.ErrorIs(t, err, batch.ErrConfiguration)
	})
}

func TestConfigFileSettings(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bncsv.yaml")
	writeFile(t, cfgPath, "quiet: true\nwrite_chunk: 4KB\n")
	src := filepath.Join(dir, "in.csv")
	writeFile(t, src, "9\n")

	out, err := execute(t, nil, "-i", "csv", "--config", cfgPath, src, "-o", filepath.Join(dir, "in.out"))
	require.NoError(t, err)
	assert.Empty(t, out)

	// flags win over the file
	out, err = execute(t, nil, "-i", "csv", "--config", cfgPath, "-q=false", src, "-o", filepath.Join(dir, "in2.out"))
	require.NoError(t, err)
	assert.Contains(t, out, "Success converting")

	_, err = execute(t, nil, "-i", "csv", "--config", filepath.Join(dir, "missing.yaml"), src)
	assert.ErrorIs(t, err, batch.ErrConfiguration)
}

func TestMetricsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"), "1\n")
	writeFile(t, filepath.Join(dir, "b.csv"), "2\n")
	prom := filepath.Join(dir, "bncsv.prom")

	_, err := execute(t, nil, "-i", "csv", "-q", "--metrics-file", prom, filepath.Join(dir, "*.csv"))
	require.NoError(t, err)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), `bncsv_files_total{direction="CSV->BNCSV",status="success"} 2`)
}
