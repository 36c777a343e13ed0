// Package txn implements multi-version concurrency control: transaction
// lifecycle, per-tuple version chains (undo logs), write-conflict detection,
// and the watermark that bounds garbage collection. A mutex-guarded id
// counter hands out TxnIDs; a mutex-guarded active-transaction map tracks
// Running state through Begin/Commit/Abort. There is no lock manager:
// executors detect write conflicts at write time, by calling
// CheckWriteConflict against each row's current version, rather than by
// acquiring row locks up front. Commit refuses a tainted transaction, and
// only serializable transactions are validated again at commit.
package txn

import "sync"

// TxnID identifies a transaction. Begin sets the high bit (types.InFlightBit)
// so a TupleMeta.TS field can distinguish "owned by this in-flight txn" from
// "committed at this timestamp" without a separate tag.
type TxnID uint64

// State is a transaction's lifecycle state.
type State int

const (
	Running State = iota
	Tainted
	Committed
	Aborted
)

func (s State) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Tainted:
		return "TAINTED"
	case Committed:
		return "COMMITTED"
	case Aborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// IsolationLevel selects the validation rule Commit applies.
type IsolationLevel int

const (
	SnapshotIsolation IsolationLevel = iota
	Serializable
)

// TableOID identifies a table for the purposes of a transaction's write and
// read sets. The catalog package hands these out; txn never dereferences one
// itself, keeping this package free of a catalog import.
type TableOID uint32

// Link addresses one UndoLog entry: the LogIndex-th entry appended by
// transaction TxnID. InvalidLink terminates a version chain.
type Link struct {
	TxnID    TxnID
	LogIndex int
}

var InvalidLink = Link{TxnID: 0, LogIndex: -1}

func (l Link) IsValid() bool { return l != InvalidLink }

// UndoLog is one partial-column patch in a tuple's version chain: applying
// it to the newer version it is attached to reproduces the tuple as of Ts.
// It carries an is-deleted flag, a partial tuple holding only the modified
// columns, a bitmap of which columns are present, and a link to the prior
// version.
type UndoLog struct {
	IsDeleted      bool
	ModifiedFields []bool
	Tuple          []byte // packed per PackPartial, holding only the columns ModifiedFields marks true
	Ts             uint64 // the commit timestamp of the version this patch reconstructs
	Prev           Link
}

// writeRecord is a transaction-private note of one RID it wrote, kept so
// Abort can replay writes in reverse without re-deriving them from the
// undo log package's Link addressing.
type writeRecord struct {
	oid      TableOID
	rid      rid
	wasInsert bool
	link     Link
}

// rid mirrors types.RID's fields without importing the types package into
// every corner of the transaction bookkeeping; Manager's exported API uses
// types.RID directly and converts at the boundary.
type rid struct {
	PageID, SlotID uint32
}

// Transaction is one MVCC transaction: a stable snapshot (ReadTS), an
// append-only private undo log, and per-table write sets. It carries no
// page-latch or lock bookkeeping; write conflicts are detected at write
// time and taint the transaction.
type Transaction struct {
	mu sync.Mutex

	id        TxnID
	readTS    uint64
	commitTS  uint64
	state     State
	isolation IsolationLevel

	// undoLog is append-only and shared by every rid this transaction wrote;
	// entries are addressed by their fixed index (Link.LogIndex) forever, so
	// GC reclaims one entry at a time by nil-ing it rather than by
	// truncating the slice, which would also discard later entries
	// belonging to other rids.
	undoLog []*UndoLog
	writes  []writeRecord
	// readSet records (oid, rid) pairs this transaction has observed, used
	// by serializable validation to detect a read-write anti-dependency.
	readSet map[TableOID]map[rid]struct{}
}

func newTransaction(id TxnID, readTS uint64, isolation IsolationLevel) *Transaction {
	return &Transaction{
		id:        id,
		readTS:    readTS,
		isolation: isolation,
		readSet:   make(map[TableOID]map[rid]struct{}),
	}
}

func (t *Transaction) ID() TxnID       { return t.id }
func (t *Transaction) ReadTS() uint64  { return t.readTS }
func (t *Transaction) CommitTS() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.commitTS
}

func (t *Transaction) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Transaction) IsTainted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == Tainted
}

// appendUndoLog adds log to this transaction's private undo log and returns
// the Link addressing it. Only the owning transaction ever appends to its
// own log, so this needs no lock beyond t.mu (held for the length check
// undoLogAt performs concurrently from other goroutines).
func (t *Transaction) appendUndoLog(log UndoLog) Link {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := len(t.undoLog)
	t.undoLog = append(t.undoLog, &log)
	return Link{TxnID: t.id, LogIndex: idx}
}

func (t *Transaction) undoLogAt(idx int) (UndoLog, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.undoLog) || t.undoLog[idx] == nil {
		return UndoLog{}, false
	}
	return *t.undoLog[idx], true
}

// undoLogLen reports how many entries remain unreclaimed, used by GC to
// detect a transaction whose entire log has been reclaimed.
func (t *Transaction) undoLogLen() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.undoLog {
		if e != nil {
			n++
		}
	}
	return n
}

// reclaimUndoLog nils the single entry at idx, leaving every other index —
// including ones appended after it for other rids — untouched.
func (t *Transaction) reclaimUndoLog(idx int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx >= 0 && idx < len(t.undoLog) {
		t.undoLog[idx] = nil
	}
}

func (t *Transaction) recordWrite(oid TableOID, r rid, wasInsert bool, link Link) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes = append(t.writes, writeRecord{oid: oid, rid: r, wasInsert: wasInsert, link: link})
}

func (t *Transaction) recordRead(oid TableOID, r rid) {
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.readSet[oid]
	if !ok {
		set = make(map[rid]struct{})
		t.readSet[oid] = set
	}
	set[r] = struct{}{}
}
