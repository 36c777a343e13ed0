package txn

import (
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"vdbms/common"
	"vdbms/types"
)

func toRid(r types.RID) rid { return rid{PageID: r.PageID, SlotID: r.SlotID} }

func fromRid(r rid) types.RID { return types.RID{PageID: r.PageID, SlotID: r.SlotID} }

// HeapAccessor is the callback surface Manager uses to finalize a commit or
// replay an abort without importing the storage or catalog packages
// directly — engine.Instance implements it once, wiring the catalog's
// TableInfo lookups and TableHeap calls behind TableOID.
type HeapAccessor interface {
	Schema(oid TableOID) *types.Schema
	GetTuple(oid TableOID, rid types.RID) (types.TupleMeta, *types.Tuple, error)
	UpdateTupleMeta(oid TableOID, rid types.RID, meta types.TupleMeta) error
	UpdateTupleInPlace(oid TableOID, rid types.RID, meta types.TupleMeta, data []byte) error
}

// Manager is the MVCC transaction manager: timestamp allocation, the active
// transaction table, the watermark, and every table's version chain heads.
// It carries no WAL/recovery/checkpoint coupling, since durability is out
// of scope; the version chain heads, watermark, and write-conflict
// validation below implement snapshot isolation and the experimental
// serializable mode.
type Manager struct {
	mu           sync.Mutex
	lastCommitTS uint64
	nextTxnID    uint64
	txns         map[TxnID]*Transaction
	watermark    *Watermark

	versionMu    common.KeyMutex[rid]
	versionLinks sync.Map // rid -> Link
	versionOids  sync.Map // rid -> TableOID, tracked alongside versionLinks so GC can look up each chain's live heap tuple

	isolation IsolationLevel
	log       *logrus.Entry
}

func NewManager(isolation IsolationLevel, log *logrus.Entry) *Manager {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Manager{
		txns:      make(map[TxnID]*Transaction),
		watermark: NewWatermark(0),
		isolation: isolation,
		log:       log,
	}
}

// Begin allocates a fresh transaction at the manager's default isolation
// level. See BeginWithIsolation to override it per-session.
func (m *Manager) Begin() *Transaction {
	return m.BeginWithIsolation(m.isolation)
}

// BeginWithIsolation allocates a fresh transaction with the in-flight high
// bit set and a snapshot at the last committed timestamp, at the given
// isolation level (session.Config's isolation_level variable feeds this).
func (m *Manager) BeginWithIsolation(isolation IsolationLevel) *Transaction {
	m.mu.Lock()
	m.nextTxnID++
	id := TxnID(m.nextTxnID) | TxnID(types.InFlightBit)
	readTS := m.lastCommitTS
	txn := newTransaction(id, readTS, isolation)
	m.txns[id] = txn
	m.mu.Unlock()

	m.watermark.AddTxn(readTS)
	m.log.WithFields(logrus.Fields{"txn": id, "read_ts": readTS}).Debug("txn begin")
	return txn
}

func (m *Manager) Lookup(id TxnID) (*Transaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.txns[id]
	return txn, ok
}

// Taint marks txn TAINTED. Idempotent; a no-op once the transaction has
// already reached a terminal state.
func (m *Manager) Taint(txn *Transaction, reason string) {
	txn.mu.Lock()
	defer txn.mu.Unlock()
	if txn.state != Running {
		return
	}
	txn.state = Tainted
	m.log.WithFields(logrus.Fields{"txn": txn.id, "reason": reason}).Warn("txn tainted")
}

// CheckWriteConflict implements the snapshot-isolation write-conflict rule:
// a write by txn to a slot currently stamped meta conflicts if meta belongs
// to a different in-flight transaction, or was committed after txn's
// snapshot. On conflict it taints txn and returns a wrapped ErrWriteConflict.
func (m *Manager) CheckWriteConflict(meta types.TupleMeta, txn *Transaction) error {
	if meta.IsInFlight() {
		if TxnID(meta.TxnID()) != txn.ID() {
			m.Taint(txn, "write-write conflict against in-flight txn")
			return common.WriteConflictf("txn %d: rid owned by in-flight txn %d", txn.ID(), meta.TxnID())
		}
		return nil
	}
	if meta.CommitTS() > txn.ReadTS() {
		m.Taint(txn, "write-write conflict against a newer commit")
		return common.WriteConflictf("txn %d: rid committed at %d after read_ts %d", txn.ID(), meta.CommitTS(), txn.ReadTS())
	}
	return nil
}

// RecordRead notes that txn observed rid on table oid, for serializable
// validation at commit time.
func (m *Manager) RecordRead(txn *Transaction, oid TableOID, r types.RID) {
	txn.recordRead(oid, toRid(r))
}

// RecordWrite appends undo to txn's private undo log, links it into rid's
// version chain (skipped for a fresh insert, which has no prior version to
// chain to), and remembers the write so Abort can replay it.
func (m *Manager) RecordWrite(txn *Transaction, oid TableOID, r types.RID, wasInsert bool, undo UndoLog) {
	link := txn.appendUndoLog(undo)
	txn.recordWrite(oid, toRid(r), wasInsert, link)
	if !wasInsert {
		m.versionOids.Store(toRid(r), oid)
		m.UpdateUndoLink(r, link)
	}
}

// GetUndoLink returns rid's version chain head, if any.
func (m *Manager) GetUndoLink(r types.RID) (Link, bool) {
	v, ok := m.versionLinks.Load(toRid(r))
	if !ok {
		return Link{}, false
	}
	return v.(Link), true
}

// UpdateUndoLink sets rid's version chain head unconditionally.
func (m *Manager) UpdateUndoLink(r types.RID, link Link) {
	unlock := m.versionMu.Lock(toRid(r))
	defer unlock()
	m.versionLinks.Store(toRid(r), link)
}

func (m *Manager) getUndoLog(link Link) (UndoLog, bool) {
	m.mu.Lock()
	owner, ok := m.txns[link.TxnID]
	m.mu.Unlock()
	if !ok {
		return UndoLog{}, false
	}
	return owner.undoLogAt(link.LogIndex)
}

// ReconstructTuple applies the MVCC read algorithm: a reader with snapshot
// readTS observes either the live slot directly, or walks the version
// chain applying partial-column patches
// until it finds a version whose Ts is visible. ok is false when no visible
// version exists (deleted, or the chain never reaches back far enough).
func (m *Manager) ReconstructTuple(schema *types.Schema, base *types.Tuple, meta types.TupleMeta, r types.RID, readTS uint64, self TxnID) (*types.Tuple, bool) {
	if meta.IsInFlight() {
		if TxnID(meta.TxnID()) == self {
			if meta.IsDeleted {
				return nil, false
			}
			return base, true
		}
	} else if meta.CommitTS() <= readTS {
		if meta.IsDeleted {
			return nil, false
		}
		return base, true
	}

	values := base.Values(schema)
	link, ok := m.GetUndoLink(r)
	for ok {
		entry, found := m.getUndoLog(link)
		if !found {
			break
		}
		patched := UnpackPartial(entry.Tuple, schema, entry.ModifiedFields)
		for i, present := range entry.ModifiedFields {
			if present {
				values[i] = patched[i]
			}
		}
		if entry.Ts <= readTS {
			if entry.IsDeleted {
				return nil, false
			}
			tup, err := types.NewTuple(values, schema)
			if err != nil {
				return nil, false
			}
			return tup, true
		}
		link, ok = entry.Prev, entry.Prev.IsValid()
	}
	return nil, false
}

// Commit validates txn (serializable mode additionally checks for
// read-write anti-dependencies), then atomically assigns a commit
// timestamp and asks accessor to stamp every RID txn wrote with it.
func (m *Manager) Commit(txn *Transaction, accessor HeapAccessor) error {
	if txn.IsTainted() {
		return common.WriteConflictf("txn %d: cannot commit a tainted transaction", txn.ID())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if txn.isolation == Serializable {
		if err := m.validateSerializable(txn, accessor); err != nil {
			txn.mu.Lock()
			txn.state = Tainted
			txn.mu.Unlock()
			return err
		}
	}

	commitTS := m.lastCommitTS + 1
	for _, w := range txn.writes {
		r := types.RID{PageID: w.rid.PageID, SlotID: w.rid.SlotID}
		meta, _, err := accessor.GetTuple(w.oid, r)
		if err != nil {
			return err
		}
		meta.TS = commitTS
		if err := accessor.UpdateTupleMeta(w.oid, r, meta); err != nil {
			return err
		}
	}

	m.lastCommitTS = commitTS
	txn.mu.Lock()
	txn.commitTS = commitTS
	txn.state = Committed
	txn.mu.Unlock()

	m.watermark.RemoveTxn(txn.readTS)
	m.watermark.UpdateCommitTs(commitTS)
	m.log.WithFields(logrus.Fields{"txn": txn.id, "commit_ts": commitTS}).Info("txn commit")
	return nil
}

// validateSerializable rejects a commit when some other transaction
// committed a write to a RID this txn read, after this txn's snapshot was
// taken — a read-write anti-dependency that snapshot isolation alone would
// miss. Called with m.mu held.
func (m *Manager) validateSerializable(txn *Transaction, accessor HeapAccessor) error {
	for oid, rids := range txn.readSet {
		for r := range rids {
			rr := types.RID{PageID: r.PageID, SlotID: r.SlotID}
			meta, _, err := accessor.GetTuple(oid, rr)
			if err != nil {
				continue
			}
			if !meta.IsInFlight() && meta.CommitTS() > txn.readTS && TxnID(meta.TxnID()) != txn.id {
				return common.WriteConflictf("txn %d: serializable anti-dependency on table %d", txn.id, oid)
			}
		}
	}
	return nil
}

// Abort replays txn's undo log in reverse, restoring each written RID to
// its pre-transaction state, then marks it ABORTED.
func (m *Manager) Abort(txn *Transaction, accessor HeapAccessor) error {
	txn.mu.Lock()
	writes := append([]writeRecord(nil), txn.writes...)
	txn.mu.Unlock()

	for i := len(writes) - 1; i >= 0; i-- {
		w := writes[i]
		r := types.RID{PageID: w.rid.PageID, SlotID: w.rid.SlotID}
		entry, ok := txn.undoLogAt(w.link.LogIndex)
		if !ok {
			continue
		}
		if w.wasInsert {
			if err := accessor.UpdateTupleMeta(w.oid, r, types.TupleMeta{TS: 0, IsDeleted: true}); err != nil {
				return err
			}
			continue
		}

		schema := accessor.Schema(w.oid)
		_, cur, err := accessor.GetTuple(w.oid, r)
		if err != nil {
			return err
		}
		values := cur.Values(schema)
		patched := UnpackPartial(entry.Tuple, schema, entry.ModifiedFields)
		for col, present := range entry.ModifiedFields {
			if present {
				values[col] = patched[col]
			}
		}
		prior, err := types.NewTuple(values, schema)
		if err != nil {
			return err
		}
		if err := accessor.UpdateTupleInPlace(w.oid, r, types.TupleMeta{TS: entry.Ts, IsDeleted: entry.IsDeleted}, prior.Data()); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.watermark.RemoveTxn(txn.readTS)
	m.mu.Unlock()

	txn.mu.Lock()
	txn.state = Aborted
	txn.mu.Unlock()

	m.log.WithFields(logrus.Fields{"txn": txn.id}).Info("txn abort")
	return nil
}

// GarbageCollection drops every version chain entry whose end-of-visibility
// (the commit timestamp of the version that superseded it — the live heap
// tuple's commit ts for the chain head, or the next-newer entry's Ts
// otherwise) has fallen below the watermark, and forgets committed/aborted
// transactions whose entire undo log has been reclaimed. It may run
// concurrently with normal traffic: a chain is only ever shortened from its
// tail (the oldest end), never from the head a live reader might be
// mid-traversal of.
func (m *Manager) GarbageCollection(accessor HeapAccessor) (reclaimed int) {
	w := m.watermark.GetWatermark()

	m.versionLinks.Range(func(key, value any) bool {
		r := key.(rid)
		head := value.(Link)
		unlock := m.versionMu.Lock(r)
		defer unlock()

		succTs := uint64(math.MaxUint64)
		if oidVal, ok := m.versionOids.Load(r); ok {
			if meta, _, err := accessor.GetTuple(oidVal.(TableOID), fromRid(r)); err == nil && !meta.IsInFlight() {
				succTs = meta.CommitTS()
			}
		}

		cur := head
		first := true
		for cur.IsValid() {
			entry, ok := m.getUndoLog(cur)
			if !ok {
				break
			}
			if succTs < w {
				// entry (and everything reachable from it via Prev) can no
				// longer be observed by any live reader; reclaim the whole
				// tail of the chain from here back.
				if first {
					m.versionLinks.Delete(r)
					m.versionOids.Delete(r)
				}
				m.reclaimChainFrom(cur)
				break
			}
			succTs = entry.Ts
			cur = entry.Prev
			first = false
		}
		return true
	})

	m.mu.Lock()
	for id, txn := range m.txns {
		state := txn.State()
		if (state == Committed || state == Aborted) && txn.undoLogLen() == 0 {
			delete(m.txns, id)
			reclaimed++
		}
	}
	m.mu.Unlock()
	return reclaimed
}

// reclaimChainFrom nils every undo log entry reachable from link via Prev,
// one at a time in each entry's own owning transaction. Entries in the
// chain can belong to different transactions, and each transaction's undo
// log is shared across every rid it wrote, so entries are reclaimed
// individually by (TxnID, LogIndex) rather than by slice-truncating a
// transaction's log — truncating would also discard later entries the
// transaction appended for other, still-live rids.
func (m *Manager) reclaimChainFrom(link Link) {
	for link.IsValid() {
		entry, ok := m.getUndoLog(link)
		if !ok {
			return
		}
		m.reclaimUndoLogEntry(link)
		link = entry.Prev
	}
}

func (m *Manager) reclaimUndoLogEntry(link Link) {
	m.mu.Lock()
	owner, ok := m.txns[link.TxnID]
	m.mu.Unlock()
	if !ok {
		return
	}
	owner.reclaimUndoLog(link.LogIndex)
}
