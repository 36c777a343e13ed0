// Package exec implements the Volcano-style pull executors: one Executor
// per plan.Node variant, each pulling rows from its children on demand via
// Next and reconstructing MVCC-visible tuples through the transaction
// manager. Next returns (*types.Tuple, types.RID, error), with the
// io.EOF-style ErrDone sentinel marking exhaustion.
package exec

import (
	"errors"

	"vdbms/catalog"
	"vdbms/expr"
	"vdbms/session"
	"vdbms/txn"
	"vdbms/types"
)

// ErrDone is returned by Next once an executor is exhausted.
var ErrDone = errors.New("exec: no more tuples")

// ExecutorContext is the per-statement handle every executor needs: the
// transaction it runs under, the manager that resolves MVCC visibility and
// records reads/writes, the catalog it resolves table/index OIDs against,
// and the session Config governing SET/SHOW variables like simd_enabled.
// Config may be nil in tests that never touch a session-configurable path.
type ExecutorContext struct {
	Txn     *txn.Transaction
	TxnMgr  *txn.Manager
	Catalog *catalog.Catalog
	Config  *session.Config
}

// Executor is the contract every plan node's runtime counterpart satisfies.
type Executor interface {
	Init() error
	Next() (*types.Tuple, types.RID, error)
	OutSchema() *types.Schema
}

// base supplies the ExecutorContext/OutSchema plumbing every executor embeds.
type base struct {
	ctx    *ExecutorContext
	schema *types.Schema
}

func (b *base) OutSchema() *types.Schema { return b.schema }

// visible reconstructs the MVCC-visible version of a physically-read row
// for the executor's transaction, recording the read for serializable
// validation. ok is false when no version of the row is visible (deleted,
// or too new).
func visible(ctx *ExecutorContext, oid txn.TableOID, schema *types.Schema, rawMeta types.TupleMeta, raw *types.Tuple, rid types.RID) (*types.Tuple, bool) {
	ctx.TxnMgr.RecordRead(ctx.Txn, oid, rid)
	return ctx.TxnMgr.ReconstructTuple(schema, raw, rawMeta, rid, ctx.Txn.ReadTS(), ctx.Txn.ID())
}

func evalPredTrue(pred expr.Expression, tup *types.Tuple, schema *types.Schema) bool {
	if pred == nil {
		return true
	}
	v := pred.Evaluate(tup, schema)
	return !v.IsNull() && v.AsBool()
}

func evalJoinPredTrue(pred expr.Expression, left *types.Tuple, leftSchema *types.Schema, right *types.Tuple, rightSchema *types.Schema) bool {
	if pred == nil {
		return true
	}
	v := pred.EvaluateJoin(left, leftSchema, right, rightSchema)
	return !v.IsNull() && v.AsBool()
}
