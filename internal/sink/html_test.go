package sink_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remint-io/remint/internal/config"
	"github.com/remint-io/remint/internal/sink"
)

func TestHTML_Finish_RendersPagePerCategory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := sink.NewHTML(dir)

	require.NoError(t, s.PutRow("FOO", []string{"CNAME", "PTIME", "VAL"}))
	require.NoError(t, s.PutRow("FOO", []string{"FOO", "1000000000", "5"}))
	require.NoError(t, s.PutRow("FOO", []string{"FOO", "1000000010", "7"}))
	require.NoError(t, s.ApplyReport("FOO", config.PivotSpec{Data: []string{"VAL"}, Chart: "line"}))
	require.NoError(t, s.Finish())

	page, err := os.ReadFile(filepath.Join(dir, "FOO.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "VAL")
	assert.Contains(t, string(page), "1000000010")
}

func TestHTML_NoSpec_ChartsAllValueColumns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := sink.NewHTML(dir)

	require.NoError(t, s.PutRow("BAR", []string{"CNAME", "PTIME", "A", "B"}))
	require.NoError(t, s.PutRow("BAR", []string{"BAR", "1000000000", "1", "2"}))
	require.NoError(t, s.Finish())

	page, err := os.ReadFile(filepath.Join(dir, "BAR.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "\"A\"")
	assert.Contains(t, string(page), "\"B\"")
}

func TestHTML_SingleColumnCategory_RendersWithoutSeries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := sink.NewHTML(dir)

	require.NoError(t, s.PutRow("FOO", []string{"CNAME"}))
	require.NoError(t, s.PutRow("FOO", []string{"FOO"}))
	require.NoError(t, s.Finish())

	_, err := os.Stat(filepath.Join(dir, "FOO.html"))
	assert.NoError(t, err)
}

func TestHTML_PageFileName_SanitizesCategory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := sink.NewHTML(dir)

	require.NoError(t, s.PutRow("NET/ETH0", []string{"CNAME", "PTIME", "RX"}))
	require.NoError(t, s.PutRow("NET/ETH0", []string{"NET/ETH0", "1000000000", "3"}))
	require.NoError(t, s.Finish())

	_, err := os.Stat(filepath.Join(dir, "NET_ETH0.html"))
	assert.NoError(t, err)
}

func TestHTML_ApplyReport_UnknownColumn_ReturnsError(t *testing.T) {
	t.Parallel()

	s := sink.NewHTML(t.TempDir())
	require.NoError(t, s.PutRow("FOO", []string{"CNAME", "PTIME", "VAL"}))

	err := s.ApplyReport("FOO", config.PivotSpec{Data: []string{"NOPE"}})
	assert.ErrorIs(t, err, sink.ErrReportColumn)
}

func TestHTML_Finish_NoCategories_NoOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, sink.NewHTML(dir).Finish())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
