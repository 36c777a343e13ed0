package engine

import (
	"errors"

	"vdbms/common"
	"vdbms/exec"
	"vdbms/optimizer"
	"vdbms/plan"
	"vdbms/txn"
	"vdbms/types"
)

// Accessor returns the txn.HeapAccessor Commit/Abort use to finalize or
// replay a transaction's writes against this instance's catalog.
func (in *Instance) Accessor() txn.HeapAccessor { return heapAccessor{in} }

// Optimize rewrites n with the instance's catalog wired in as the
// index-assisted rules' lookup.
func (in *Instance) Optimize(n plan.Node) plan.Node {
	return optimizer.Optimize(n, optimizer.DefaultRules(in.Catalog))
}

// ExecutePlan runs n to completion under t, returning every row it
// produces. A statement failure during Init/Next is returned with a nil row
// slice, so no partial result survives it;
// ExecutePlan itself never aborts the transaction, since a caller running
// multiple statements in one explicit transaction must decide that.
func ExecutePlan(ctx *exec.ExecutorContext, n plan.Node) ([]*types.Tuple, error) {
	ex, err := exec.Build(ctx, n)
	if err != nil {
		return nil, err
	}
	if err := runGuarded(ex.Init); err != nil {
		return nil, err
	}

	var out []*types.Tuple
	for {
		tup, _, err := nextGuarded(ex)
		if err == exec.ErrDone {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, tup)
	}
}

// runGuarded recovers a panic raised while evaluating an expression — a
// division by zero is the canonical case — into the ordinary error return,
// so a runtime fault aborts only the statement that hit it instead of the
// whole process. Panics that aren't tagged ErrExecution are re-raised:
// those indicate a programming error (e.g. a mismatched-kind arithmetic
// call the planner should never have produced), not a data-dependent fault.
func runGuarded(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if execErr, ok := r.(error); ok && errors.Is(execErr, common.ErrExecution) {
				err = execErr
				return
			}
			panic(r)
		}
	}()
	return f()
}

func nextGuarded(ex exec.Executor) (tup *types.Tuple, rid types.RID, err error) {
	err = runGuarded(func() error {
		var e error
		tup, rid, e = ex.Next()
		return e
	})
	return
}

// ExecuteAutoCommit runs n under a fresh transaction at the instance's
// configured isolation level, committing on success and aborting on
// failure. This is the mode used for statements issued outside an explicit
// BEGIN.
func (in *Instance) ExecuteAutoCommit(n plan.Node) ([]*types.Tuple, error) {
	t := in.Begin()
	ctx := &exec.ExecutorContext{Txn: t, TxnMgr: in.TxnMgr, Catalog: in.Catalog, Config: in.Config}

	rows, err := ExecutePlan(ctx, in.Optimize(n))
	if err != nil {
		in.setLastError(err)
		_ = in.TxnMgr.Abort(t, in.Accessor())
		return nil, err
	}
	if err := in.TxnMgr.Commit(t, in.Accessor()); err != nil {
		in.setLastError(err)
		return nil, err
	}
	in.setLastError(nil)
	return rows, nil
}
