package assemble_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remint-io/remint/internal/assemble"
)

func TestRecordIfNew_FirstCall_ExtendsHeaderWithDiffColumns(t *testing.T) {
	t.Parallel()

	reg := assemble.NewRegistry()

	header, isNew := reg.RecordIfNew("FOO", []string{"CNAME", "PTIME", "VAL"}, []string{"VAL"})
	require.True(t, isNew)
	assert.Equal(t, []string{"CNAME", "PTIME", "VAL", "diff_VAL"}, header)
}

func TestRecordIfNew_SecondCall_IsNoOp(t *testing.T) {
	t.Parallel()

	reg := assemble.NewRegistry()

	first, isNew := reg.RecordIfNew("FOO", []string{"CNAME", "VAL"}, nil)
	require.True(t, isNew)

	second, isNew := reg.RecordIfNew("FOO", []string{"CNAME", "VAL"}, nil)
	assert.False(t, isNew)
	assert.Equal(t, first, second)
}

func TestColumnIndex_KnownField_ReturnsPosition(t *testing.T) {
	t.Parallel()

	reg := assemble.NewRegistry()
	reg.RecordIfNew("FOO", []string{"CNAME", "PTIME", "VAL"}, []string{"VAL"})

	pos, err := reg.ColumnIndex("FOO", "VAL")
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	pos, err = reg.ColumnIndex("FOO", "diff_VAL")
	require.NoError(t, err)
	assert.Equal(t, 3, pos)
}

func TestColumnIndex_UnknownField_ReturnsError(t *testing.T) {
	t.Parallel()

	reg := assemble.NewRegistry()
	reg.RecordIfNew("FOO", []string{"CNAME"}, nil)

	_, err := reg.ColumnIndex("FOO", "NOPE")
	assert.ErrorIs(t, err, assemble.ErrUnknownColumn)
}

func TestColumnIndex_UnknownCategory_ReturnsError(t *testing.T) {
	t.Parallel()

	reg := assemble.NewRegistry()

	_, err := reg.ColumnIndex("GHOST", "CNAME")
	assert.ErrorIs(t, err, assemble.ErrUnknownColumn)
}

func TestCategories_PreservesFirstSeenOrder(t *testing.T) {
	t.Parallel()

	reg := assemble.NewRegistry()
	reg.RecordIfNew("B", []string{"CNAME"}, nil)
	reg.RecordIfNew("A", []string{"CNAME"}, nil)
	reg.RecordIfNew("B", []string{"CNAME"}, nil)

	assert.Equal(t, []string{"B", "A"}, reg.Categories())
}
