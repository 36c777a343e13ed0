package buffer

import (
	"fmt"
	"sync"

	"vdbms/common"
	"vdbms/storage/disk"
	"vdbms/storage/page"
)

// Pool is the buffer pool's public contract: pin/unpin, latched guards, and
// bulk flush.
type Pool interface {
	NewPage() (*Guard, error)
	FetchPageRead(id page.ID) (*Guard, error)
	FetchPageWrite(id page.ID) (*Guard, error)
	UnpinPage(id page.ID, dirty bool) bool
	FlushAll() error
	EmptyFrames() int
}

// Guard is a scoped handle to a pinned, latched page. Callers must call
// Release exactly once, on every exit path: an RAII-style value standing
// in for the destructor Go doesn't have.
type Guard struct {
	pool  *BufferPool
	raw   *page.Raw
	write bool
}

func (g *Guard) Page() *page.Raw { return g.raw }

func (g *Guard) TablePage() *page.TablePage { return page.NewTablePage(g.raw) }

// Release unlatches and unpins the guarded page. dirty marks whether the
// caller mutated the page's content.
func (g *Guard) Release(dirty bool) {
	if g.write {
		g.raw.WUnlatch()
	} else {
		g.raw.RUnlatch()
	}
	g.pool.UnpinPage(g.raw.ID(), dirty)
}

var _ Pool = &BufferPool{}

// BufferPool owns a fixed array of frames and a pluggable Replacer. Its own
// bookkeeping (pageTable, freeFrames) is guarded by one mutex; each frame's
// content is guarded independently by the page's own reader/writer latch,
// so a long-held page latch never blocks unrelated page lookups.
type BufferPool struct {
	mu         sync.Mutex
	frames     []*page.Raw
	pageTable  map[page.ID]int
	freeFrames []int
	replacer   Replacer
	disk       disk.Manager
	stats      *common.Stats
}

func NewBufferPool(poolSize int, disk disk.Manager, replacer Replacer) *BufferPool {
	free := make([]int, poolSize)
	for i := range free {
		free[i] = i
	}
	return &BufferPool{
		frames:     make([]*page.Raw, poolSize),
		pageTable:  make(map[page.ID]int, poolSize),
		freeFrames: free,
		replacer:   replacer,
		disk:       disk,
		stats:      common.NewStats(),
	}
}

func (b *BufferPool) EmptyFrames() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.freeFrames)
}

// reserveFrame returns a frame index ready to hold a new page, evicting a
// victim via the replacer if the pool is full. Caller must hold b.mu.
func (b *BufferPool) reserveFrame() (int, error) {
	if len(b.freeFrames) > 0 {
		idx := b.freeFrames[len(b.freeFrames)-1]
		b.freeFrames = b.freeFrames[:len(b.freeFrames)-1]
		return idx, nil
	}

	victim, ok := b.replacer.Victim()
	if !ok {
		return 0, common.IOErrorf("buffer pool exhausted: every frame is pinned")
	}

	victimPage := b.frames[victim]
	if victimPage.IsDirty() {
		if err := b.disk.WritePage(victimPage.ID(), victimPage.Data()); err != nil {
			return 0, err
		}
	}
	delete(b.pageTable, victimPage.ID())
	return victim, nil
}

func (b *BufferPool) NewPage() (*Guard, error) {
	b.mu.Lock()
	id := b.disk.AllocatePage()
	frameIdx, err := b.reserveFrame()
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}

	raw := page.NewRaw(id)
	raw.IncrPinCount()
	b.frames[frameIdx] = raw
	b.pageTable[id] = frameIdx
	b.replacer.Pin(frameIdx)
	b.mu.Unlock()

	raw.WLatch()
	page.Init(raw)
	return &Guard{pool: b, raw: raw, write: true}, nil
}

func (b *BufferPool) fetch(id page.ID) (*page.Raw, error) {
	b.mu.Lock()
	if frameIdx, ok := b.pageTable[id]; ok {
		raw := b.frames[frameIdx]
		raw.IncrPinCount()
		b.replacer.Pin(frameIdx)
		b.mu.Unlock()
		return raw, nil
	}

	frameIdx, err := b.reserveFrame()
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}

	data, err := b.disk.ReadPage(id)
	if err != nil {
		b.freeFrames = append(b.freeFrames, frameIdx)
		b.mu.Unlock()
		return nil, common.IOErrorf("buffer pool: read page %d: %v", id, err)
	}

	raw := page.NewRaw(id)
	copy(raw.Data(), data)
	raw.IncrPinCount()
	b.frames[frameIdx] = raw
	b.pageTable[id] = frameIdx
	b.replacer.Pin(frameIdx)
	b.mu.Unlock()
	return raw, nil
}

func (b *BufferPool) FetchPageRead(id page.ID) (*Guard, error) {
	raw, err := b.fetch(id)
	if err != nil {
		return nil, err
	}
	raw.RLatch()
	return &Guard{pool: b, raw: raw, write: false}, nil
}

func (b *BufferPool) FetchPageWrite(id page.ID) (*Guard, error) {
	raw, err := b.fetch(id)
	if err != nil {
		return nil, err
	}
	raw.WLatch()
	return &Guard{pool: b, raw: raw, write: true}, nil
}

func (b *BufferPool) UnpinPage(id page.ID, dirty bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameIdx, ok := b.pageTable[id]
	if !ok {
		return false
	}
	raw := b.frames[frameIdx]
	if dirty {
		raw.SetDirty()
	}
	if raw.PinCount() <= 0 {
		panic(fmt.Sprintf("buffer: unpin called with non-positive pin count on page %d", id))
	}
	raw.DecrPinCount()
	if raw.PinCount() == 0 {
		b.replacer.Unpin(frameIdx)
		b.stats.Observe("unpin", 1)
		return true
	}
	return false
}

// FlushAll synchronously writes every dirty frame to disk.
func (b *BufferPool) FlushAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, raw := range b.frames {
		if raw == nil || !raw.IsDirty() {
			continue
		}
		if err := b.disk.WritePage(raw.ID(), raw.Data()); err != nil {
			return err
		}
		raw.SetClean()
	}
	return nil
}
