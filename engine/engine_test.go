package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vdbms/common"
	"vdbms/exec"
	"vdbms/expr"
	"vdbms/plan"
	"vdbms/types"
)

func widgetSchema() *types.Schema {
	return types.NewSchema([]types.Column{
		{Name: "id", Kind: types.Integer},
		{Name: "name", Kind: types.Varchar, Length: 32},
	})
}

func TestInstanceInsertThenScanRoundTrip(t *testing.T) {
	inst := Open(Options{})
	defer inst.Close()

	schema := widgetSchema()
	table, err := inst.Catalog.CreateTable("widgets", schema)
	require.NoError(t, err)

	insertPlan := plan.NewRawInsert(table.OID, [][]types.Value{
		{types.NewInteger(1), types.NewVarchar("a")},
		{types.NewInteger(2), types.NewVarchar("b")},
	})
	_, err = inst.ExecuteAutoCommit(insertPlan)
	require.NoError(t, err)

	scanPlan := plan.NewSeqScan(schema, table.OID, nil)
	rows, err := inst.ExecuteAutoCommit(scanPlan)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestInstanceSnapshotIsolationHidesUncommittedInsert(t *testing.T) {
	inst := Open(Options{})
	defer inst.Close()

	schema := widgetSchema()
	table, err := inst.Catalog.CreateTable("widgets", schema)
	require.NoError(t, err)

	reader := inst.Begin()
	writer := inst.Begin()

	writerCtx := &exec.ExecutorContext{Txn: writer, TxnMgr: inst.TxnMgr, Catalog: inst.Catalog}
	insExec, err := exec.Build(writerCtx, plan.NewRawInsert(table.OID, [][]types.Value{
		{types.NewInteger(1), types.NewVarchar("a")},
	}))
	require.NoError(t, err)
	require.NoError(t, insExec.Init())
	_, _, err = insExec.Next()
	require.NoError(t, err)

	readerCtx := &exec.ExecutorContext{Txn: reader, TxnMgr: inst.TxnMgr, Catalog: inst.Catalog}
	rows, err := ExecutePlan(readerCtx, plan.NewSeqScan(schema, table.OID, nil))
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, inst.TxnMgr.Commit(writer, inst.Accessor()))
	require.NoError(t, inst.TxnMgr.Abort(reader, inst.Accessor()))
}

func TestExecutePlanSurfacesDivisionByZeroAsError(t *testing.T) {
	inst := Open(Options{})
	defer inst.Close()

	rowSchema := types.NewSchema([]types.Column{{Name: "n", Kind: types.Integer}})
	valuesPlan := plan.NewValues(rowSchema, [][]types.Value{{types.NewInteger(10)}})

	outSchema := types.NewSchema([]types.Column{{Name: "result", Kind: types.Integer}})
	divExpr := expr.NewBinaryArithmetic(expr.DivOp,
		expr.NewColumnValue(0, 0, rowSchema.Columns()[0]),
		expr.NewConstant(types.NewInteger(0)))
	projPlan := plan.NewProjection(outSchema, valuesPlan, []expr.Expression{divExpr})

	t.Run("ExecutePlan", func(t *testing.T) {
		reader := inst.Begin()
		defer func() { _ = inst.TxnMgr.Abort(reader, inst.Accessor()) }()
		ctx := &exec.ExecutorContext{Txn: reader, TxnMgr: inst.TxnMgr, Catalog: inst.Catalog}

		rows, err := ExecutePlan(ctx, projPlan)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrExecution))
		assert.Nil(t, rows)
	})

	t.Run("ExecuteAutoCommit", func(t *testing.T) {
		rows, err := inst.ExecuteAutoCommit(projPlan)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrExecution))
		assert.Nil(t, rows)
	})
}

func TestInstanceSetShowSessionVariable(t *testing.T) {
	inst := Open(Options{})
	defer inst.Close()

	require.NoError(t, inst.Config.Set("isolation_level", "serializable"))
	v, err := inst.Config.Show("isolation_level")
	require.NoError(t, err)
	assert.Equal(t, "serializable", v)
}
