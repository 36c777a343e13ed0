package types

import "fmt"

// RID (row identifier) locates a tuple physically: the page it lives on and
// its slot within that page's slot directory.
type RID struct {
	PageID uint32
	SlotID uint32
}

func (r RID) String() string { return fmt.Sprintf("(%d,%d)", r.PageID, r.SlotID) }

// InvalidRID is the zero value; page id 0 is never allocated (the buffer
// pool numbers real pages starting at 1) so it doubles as a sentinel.
var InvalidRID = RID{}

func (r RID) IsValid() bool { return r != InvalidRID }
