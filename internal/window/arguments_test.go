package window_test

import (
	"testing"

	"github.com/paveg/analytic/internal/series"
	"github.com/paveg/analytic/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgumentList_StageAndUnstage(t *testing.T) {
	args := window.NewArgumentList()

	require.NoError(t, args.StageFunction("price", window.FunctionSum))
	assert.True(t, args.HasStaged())

	err := args.StageFunction("price", window.FunctionMax)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUM(price) is staged without an output name")

	require.NoError(t, args.UnstageFunction("total"))
	assert.False(t, args.HasStaged())

	require.NoError(t, args.StageFunction("", window.FunctionRank))
	require.NoError(t, args.UnstageFunction("position"))

	assert.Equal(t, 2, args.Len())
	assert.Equal(t, []window.Binding{
		{Source: "price", Function: window.FunctionSum, Output: "total"},
		{Function: window.FunctionRank, Output: "position"},
	}, args.Bindings())
	assert.Equal(t, "SUM(price) AS total, RANK() AS position", args.String())
}

func TestArgumentList_Errors(t *testing.T) {
	t.Run("duplicate output", func(t *testing.T) {
		args := window.NewArgumentList()
		require.NoError(t, args.StageFunction("a", window.FunctionSum))
		require.NoError(t, args.UnstageFunction("out"))
		require.NoError(t, args.StageFunction("b", window.FunctionMax))

		err := args.UnstageFunction("out")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate column name")
	})

	t.Run("nothing staged", func(t *testing.T) {
		err := window.NewArgumentList().UnstageFunction("out")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no function is staged")
	})

	t.Run("empty output name", func(t *testing.T) {
		args := window.NewArgumentList()
		require.NoError(t, args.StageFunction("a", window.FunctionSum))
		require.Error(t, args.UnstageFunction(""))
	})

	t.Run("aggregate without source", func(t *testing.T) {
		err := window.NewArgumentList().StageFunction("", window.FunctionMax)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MAX requires a source column")
	})

	t.Run("numbering with source", func(t *testing.T) {
		err := window.NewArgumentList().StageFunction("a", window.FunctionRowNumber)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ROW_NUMBER does not take a source column")
	})

	t.Run("validate while staged", func(t *testing.T) {
		args := window.NewArgumentList()
		require.NoError(t, args.StageFunction("a", window.FunctionSum))
		require.NoError(t, args.UnstageFunction("first"))
		require.NoError(t, args.StageFunction("a", window.FunctionMax))

		err := args.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MAX(a) is staged without an output name")
	})

	t.Run("validate empty", func(t *testing.T) {
		err := window.NewArgumentList().Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no output columns")
	})
}

func TestArgumentList_CreateEmptyDestinationColumns(t *testing.T) {
	args := window.NewArgumentList()
	for _, b := range []window.Binding{
		{Source: "x", Function: window.FunctionSum, Output: "zeta"},
		{Function: window.FunctionDenseRank, Output: "alpha"},
		{Source: "x", Function: window.FunctionMax, Output: "mid"},
	} {
		require.NoError(t, args.StageFunction(b.Source, b.Function))
		require.NoError(t, args.UnstageFunction(b.Output))
	}

	columns := args.CreateEmptyDestinationColumns(3)
	require.Len(t, columns, 3)

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name()
		assert.Equal(t, 3, col.Len())
		for row := 0; row < 3; row++ {
			assert.True(t, col.IsMissing(row))
		}
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
	assert.Equal(t, series.TypeFloat64, columns[0].Type())
	assert.Equal(t, series.TypeInt64, columns[1].Type())
	assert.Equal(t, series.TypeFloat64, columns[2].Type())
}

func TestFunctionKind(t *testing.T) {
	tests := []struct {
		kind        window.FunctionKind
		name        string
		numbering   bool
		implemented bool
		returnType  series.ColumnType
	}{
		{window.FunctionSum, "SUM", false, true, series.TypeFloat64},
		{window.FunctionMax, "MAX", false, true, series.TypeFloat64},
		{window.FunctionMean, "MEAN", false, false, series.TypeFloat64},
		{window.FunctionMin, "MIN", false, false, series.TypeFloat64},
		{window.FunctionCount, "COUNT", false, false, series.TypeInt64},
		{window.FunctionRowNumber, "ROW_NUMBER", true, true, series.TypeInt64},
		{window.FunctionRank, "RANK", true, true, series.TypeInt64},
		{window.FunctionDenseRank, "DENSE_RANK", true, true, series.TypeInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.numbering, tt.kind.IsNumbering())
			assert.Equal(t, !tt.numbering, tt.kind.IsAggregate())
			assert.Equal(t, tt.implemented, tt.kind.Implemented())
			assert.Equal(t, tt.returnType, tt.kind.ReturnType())

			parsed, ok := window.ParseFunctionKind(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.kind, parsed)
		})
	}

	_, ok := window.ParseFunctionKind("median")
	assert.False(t, ok)
}
