// Package disk stands in for the on-disk page store. Durability after crash
// is a stated Non-goal, so Manager is backed by memory rather than a file,
// but it preserves the same page-oriented interface (and the exact
// TablePage byte layout defined in page.TablePage) so a real file-backed
// implementation could be substituted without touching the buffer pool.
//
// Manager exposes AllocatePage/ReadPage/WritePage over pages of page.Size; this
// implementation is backed by a mutex-guarded map instead of a file.
package disk

import (
	"fmt"
	"sync"

	"vdbms/storage/page"
)

// Manager is the interface the buffer pool depends on to read and write
// pages and to allocate fresh page ids.
type Manager interface {
	ReadPage(id page.ID) ([]byte, error)
	WritePage(id page.ID, data []byte) error
	AllocatePage() page.ID
}

// MemManager is an in-memory Manager. It is the only implementation shipped
// since durability is out of scope; production deployments would swap this
// for a file-backed implementation behind the same interface.
type MemManager struct {
	mu       sync.Mutex
	pages    map[page.ID][]byte
	lastPage page.ID
}

func NewMemManager() *MemManager {
	return &MemManager{pages: make(map[page.ID][]byte)}
}

func (m *MemManager) ReadPage(id page.ID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.pages[id]
	if !ok {
		return nil, fmt.Errorf("disk: page %d does not exist", id)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemManager) WritePage(id page.ID, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.pages[id] = buf
	return nil
}

func (m *MemManager) AllocatePage() page.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPage++
	m.pages[m.lastPage] = make([]byte, page.Size)
	return m.lastPage
}
