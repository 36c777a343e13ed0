// Package engine wires every subsystem together into one running instance:
// the buffer pool, catalog, transaction manager, session configuration, and
// the background garbage collector. It is the outermost layer the (out of
// scope) shell or cmd/vdbms talks to.
//
// Open allocates a disk manager, wraps it in a buffer pool, and hands the
// pool to the higher layers, returning a single struct rather than wiring
// globals inline.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vdbms/catalog"
	"vdbms/session"
	"vdbms/storage/buffer"
	"vdbms/storage/disk"
	"vdbms/txn"
)

func timerC(d time.Duration) <-chan time.Time { return time.After(d) }

// Options configures Open. A zero Options is valid: it produces a small
// in-memory instance with sensible defaults.
type Options struct {
	// PoolSize is the number of frames the buffer pool holds. Defaults to
	// 128 when zero.
	PoolSize int
	// Isolation seeds Session.Config's isolation_level variable at Open.
	// Every transaction Begin starts, auto-commit or not, takes the level
	// that variable holds at that moment, so a later SET overrides this.
	Isolation txn.IsolationLevel
	// Logger, when nil, defaults to logrus.StandardLogger().
	Logger *logrus.Logger
}

// Instance owns every shared subsystem: one per running database. Every
// session (one goroutine at a time, typically) executes plans against the
// same Instance. ID distinguishes one instance's log lines from another's
// when several run in the same process (as they do under `go test`).
type Instance struct {
	ID      uuid.UUID
	pool    buffer.Pool
	Catalog *catalog.Catalog
	TxnMgr  *txn.Manager
	Config  *session.Config
	log     *logrus.Entry

	gcStop chan struct{}
	gcDone chan struct{}

	mu       sync.Mutex
	lastErr  error
}

// Open constructs a fresh, empty instance: an in-memory disk manager, a
// clock-replacement buffer pool, an empty catalog, and a transaction
// manager at the requested isolation level. It also starts the background
// GC loop; callers must Close the instance when done to stop it.
func Open(opts Options) *Instance {
	if opts.PoolSize == 0 {
		opts.PoolSize = 128
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	id := uuid.New()
	entry := logger.WithFields(logrus.Fields{"component": "engine", "instance": id})

	dm := disk.NewMemManager()
	replacer := buffer.NewClockReplacer(opts.PoolSize)
	pool := buffer.NewBufferPool(opts.PoolSize, dm, replacer)

	cat := catalog.New(pool)
	cfg := session.NewConfig()
	if opts.Isolation == txn.Serializable {
		_ = cfg.Set("isolation_level", "serializable")
	}
	txnMgr := txn.NewManager(cfg.IsolationLevel(), entry)

	inst := &Instance{
		ID:      id,
		pool:    pool,
		Catalog: cat,
		TxnMgr:  txnMgr,
		Config:  cfg,
		log:     entry,
		gcStop:  make(chan struct{}),
		gcDone:  make(chan struct{}),
	}
	go inst.gcLoop()
	return inst
}

// Close stops the background GC loop. It does not flush or release the
// buffer pool: durability is a stated non-goal, so there is nothing on disk
// to flush.
func (in *Instance) Close() {
	close(in.gcStop)
	<-in.gcDone
}

// LastError returns the most recent auto-commit failure, for a shell to
// print alongside the offending transaction's state. Cleared by the next
// successful ExecuteAutoCommit.
func (in *Instance) LastError() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.lastErr
}

func (in *Instance) setLastError(err error) {
	in.mu.Lock()
	in.lastErr = err
	in.mu.Unlock()
}

// gcLoop sleeps for Config's current gc_interval, runs one GarbageCollection
// pass, and repeats until Close signals gcStop.
func (in *Instance) gcLoop() {
	defer close(in.gcDone)
	for {
		select {
		case <-in.gcStop:
			return
		case <-timerC(in.Config.GCInterval()):
			reclaimed := in.TxnMgr.GarbageCollection(in.Accessor())
			if reclaimed > 0 {
				in.log.WithField("reclaimed", reclaimed).Warn("gc reclaimed version chain entries")
			}
		}
	}
}

// Begin starts a new transaction at the instance's configured isolation
// level.
func (in *Instance) Begin() *txn.Transaction {
	return in.TxnMgr.BeginWithIsolation(in.Config.IsolationLevel())
}

// DumpChains renders one line per slot of the named table's heap (its RID,
// its TupleMeta, and whether an undo chain head exists for it), for the
// \dbgmvcc shell meta-command. The undo entries themselves are not printed.
func (in *Instance) DumpChains(tableName string) (string, error) {
	table, ok := in.Catalog.GetTable(tableName)
	if !ok {
		return "", fmt.Errorf("engine: unknown table %q", tableName)
	}
	it, err := table.Heap.Iterator()
	if err != nil {
		return "", err
	}
	out := ""
	for {
		rid, meta, _, ok, err := it.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		link, hasChain := in.TxnMgr.GetUndoLink(rid)
		out += fmt.Sprintf("rid=%v meta=%+v chain_head=%v\n", rid, meta, hasChain && link.IsValid())
	}
	return out, nil
}
