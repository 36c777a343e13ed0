package types

import "encoding/binary"

// MetaSize is the on-disk size of a TupleMeta header, matching §6's TablePage
// slot layout (offset:2, size:2, TupleMeta:16).
const MetaSize = 16

// TupleMeta is the 16-byte header every slot carries. TS is either an
// in-flight transaction id (the transaction package sets its high bit) or a
// committed commit timestamp. IsDeleted is the tombstone flag used for
// logical deletes.
type TupleMeta struct {
	TS        uint64
	IsDeleted bool
}

// InFlightBit marks TS as belonging to a still-running transaction rather
// than being a committed commit-ts.
const InFlightBit uint64 = 1 << 63

func (m TupleMeta) IsInFlight() bool { return m.TS&InFlightBit != 0 }

// CommitTS returns the committed timestamp, valid only when !IsInFlight().
func (m TupleMeta) CommitTS() uint64 { return m.TS }

// TxnID returns the owning transaction id, valid only when IsInFlight().
func (m TupleMeta) TxnID() uint64 { return m.TS }

func (m TupleMeta) Serialize(dest []byte) {
	binary.BigEndian.PutUint64(dest, m.TS)
	if m.IsDeleted {
		dest[8] = 1
	} else {
		dest[8] = 0
	}
}

func DeserializeMeta(src []byte) TupleMeta {
	return TupleMeta{
		TS:        binary.BigEndian.Uint64(src),
		IsDeleted: src[8] != 0,
	}
}
