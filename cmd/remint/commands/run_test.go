package commands_test

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remint-io/remint/cmd/remint/commands"
)

const fooDump = `CNAME PTIME     VAL
----- --------- ---
FOO   1000000000  5
FOO   1000000010  7
`

const fooCategories = `
categories:
  - name: FOO
    diff:
      value: [VAL]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := commands.NewRunCommand()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestRun_EndToEnd_CSVWithDiff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dump := writeFile(t, dir, "dump.txt", fooDump)
	cats := writeFile(t, dir, "categories.yaml", fooCategories)
	outDir := filepath.Join(dir, "out")

	_, err := runCommand(t, dump, "--categories", cats, "--format", "csv", "--out", outDir, "--no-color")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "FOO.csv"))
	require.NoError(t, err)
	assert.Equal(t, "CNAME,PTIME,VAL,diff_VAL\nFOO,1000000000,5,\nFOO,1000000010,7,2\n", string(data))
}

func TestRun_GzipInput_ProducesIdenticalRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	gzPath := filepath.Join(dir, "dump.txt.gz")
	file, err := os.Create(gzPath)
	require.NoError(t, err)

	gz := gzip.NewWriter(file)
	_, err = gz.Write([]byte(fooDump))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, file.Close())

	plainOut := filepath.Join(dir, "plain")
	gzipOut := filepath.Join(dir, "gzip")
	plain := writeFile(t, dir, "dump.txt", fooDump)

	_, err = runCommand(t, plain, "--format", "csv", "--out", plainOut, "--no-color")
	require.NoError(t, err)

	_, err = runCommand(t, gzPath, "--format", "csv", "--out", gzipOut, "--no-color")
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join(plainOut, "FOO.csv"))
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(gzipOut, "FOO.csv"))
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestRun_WindowFlags_ExcludeRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dump := writeFile(t, dir, "dump.txt", fooDump)
	outDir := filepath.Join(dir, "out")

	_, err := runCommand(t, dump,
		"--format", "csv", "--out", outDir,
		"--begin", "1000000005", "--end", "1000000015", "--no-color")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "FOO.csv"))
	require.NoError(t, err)
	assert.Equal(t, "CNAME,PTIME,VAL\nFOO,1000000010,7\n", string(data))
}

func TestRun_SummaryTable_ListsCategories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dump := writeFile(t, dir, "dump.txt", fooDump)

	out, err := runCommand(t, dump, "--format", "csv", "--out", filepath.Join(dir, "out"), "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "FOO")
	assert.Contains(t, out, "Processed 4 lines")
}

func TestRun_HTMLFormat_WritesChartPage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dump := writeFile(t, dir, "dump.txt", fooDump)
	outDir := filepath.Join(dir, "out")

	_, err := runCommand(t, dump, "--format", "html", "--out", outDir, "--no-color")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(outDir, "FOO.html"))
	assert.NoError(t, statErr)
}

func TestRun_NoInputFiles_ReturnsError(t *testing.T) {
	t.Parallel()

	_, err := runCommand(t)
	assert.ErrorIs(t, err, commands.ErrNoInputFiles)
}

func TestRun_MissingInputFile_ReturnsError(t *testing.T) {
	t.Parallel()

	_, err := runCommand(t, filepath.Join(t.TempDir(), "absent.txt"), "--no-color")
	assert.Error(t, err)
}

func TestRun_UnknownFormat_ReturnsError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dump := writeFile(t, dir, "dump.txt", fooDump)

	_, err := runCommand(t, dump, "--format", "parquet", "--no-color")
	assert.Error(t, err)
}
