package pcgbreaker

import (
	"encoding/binary"

	"golang.org/x/exp/mmap"
)

// Table is a read-only, memory-mapped view of a table.bin file. Lookup
// copies a bucket's bytes out of the mapping and returns freshly decoded
// records, so they do not borrow from the mapping and stay valid after Close.
type Table struct {
	reader  *mmap.ReaderAt
	offsets []uint64
	// bucketsStart is the file offset where the bucket region begins,
	// i.e. right after the header and offset table.
	bucketsStart int64
}

// OpenTable memory-maps path and validates its header. It returns a
// *BreakerError with KindIOFailure or KindCorruptTable on any problem.
func OpenTable(path string) (*Table, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, newBreakerError(KindIOFailure, "open table file "+path, err)
	}

	headerBuf := make([]byte, headerSize)
	if _, err := r.ReadAt(headerBuf, 0); err != nil {
		r.Close()
		return nil, newBreakerError(KindIOFailure, "read table header", err)
	}
	if _, err := decodeTableHeader(headerBuf); err != nil {
		r.Close()
		return nil, err
	}

	offsetTableSize := int64(bucketCount+1) * 8
	offsetBuf := make([]byte, offsetTableSize)
	if _, err := r.ReadAt(offsetBuf, headerSize); err != nil {
		r.Close()
		return nil, newBreakerError(KindIOFailure, "read table offsets", err)
	}
	offsets := make([]uint64, bucketCount+1)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint64(offsetBuf[i*8 : i*8+8])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			r.Close()
			return nil, newBreakerError(KindCorruptTable, "bucket offsets out of order", nil)
		}
	}

	expectedSize := headerSize + offsetTableSize + int64(offsets[bucketCount])
	if int64(r.Len()) < expectedSize {
		r.Close()
		return nil, newBreakerError(KindCorruptTable, "table file shorter than header promises", nil)
	}

	return &Table{
		reader:       r,
		offsets:      offsets,
		bucketsStart: headerSize + offsetTableSize,
	}, nil
}

// Close unmaps the underlying file. The Table must not be used afterwards;
// record slices it already returned are independent copies.
func (t *Table) Close() error {
	return t.reader.Close()
}

// Lookup returns the records stored in bucket key (0 <= key < 2^17) in
// O(1) plus the cost of reading the bucket's own bytes.
func (t *Table) Lookup(key uint32) ([]tableRecord, error) {
	if key >= bucketCount {
		return nil, newBreakerError(KindCorruptTable, "bucket key out of range", nil)
	}
	start := t.bucketsStart + int64(t.offsets[key])
	end := t.bucketsStart + int64(t.offsets[key+1])
	length := end - start
	if length < 4 {
		return nil, newBreakerError(KindCorruptTable, "bucket too short for its count prefix", nil)
	}

	buf := make([]byte, length)
	if _, err := t.reader.ReadAt(buf, start); err != nil {
		return nil, newBreakerError(KindIOFailure, "read table bucket", err)
	}

	count := binary.LittleEndian.Uint32(buf[0:4])
	want := int64(count)*recordWidth + 4
	if want != length {
		return nil, newBreakerError(KindCorruptTable, "bucket record count mismatches its length", nil)
	}

	records := make([]tableRecord, count)
	for i := range records {
		off := 4 + i*recordWidth
		records[i] = decodeRecord(buf[off : off+recordWidth])
	}
	return records, nil
}

// FindExact scans bucket key17(n) and returns every record whose full n
// value equals n, duplicates included. It returns nil if no record matches.
func (t *Table) FindExact(n uint64) ([]tableRecord, error) {
	records, err := t.Lookup(key17(n))
	if err != nil {
		return nil, err
	}
	var matches []tableRecord
	for _, r := range records {
		if r.n() == n {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

// QueryFragments returns every zeta value consistent with the 37-bit
// quantity n, trying the four symmetric forms the table's construction can
// produce a match under. The builder derives each stored record from
// -zeta*M, so a genuine match for a given n may only show up once the
// query is negated or shifted by one, depending on whether the candidate's
// zeta+epsilon_1 carries out of its 27-bit field once combined with the
// recovered high bits; grounded on original_source's
// LookupTable::query/check/binary_search, which tries exactly these four
// forms (n, -n, n-1, -n-1), negating the found fragment on the two negated
// branches. A record only stores beta = M*(-zeta) mod 2^27, so each match
// is inverted back to zeta via zetaFromFragment before being returned.
func (t *Table) QueryFragments(n uint64) ([]uint64, error) {
	var frags []uint64
	try := func(nn uint64, negate bool) error {
		matches, err := t.FindExact(nn & nMask)
		if err != nil {
			return err
		}
		for _, r := range matches {
			beta := r.fragment()
			if negate {
				beta = -beta
			}
			frags = append(frags, zetaFromFragment(beta))
		}
		return nil
	}

	if err := try(n, false); err != nil {
		return nil, err
	}
	if err := try(-n, true); err != nil {
		return nil, err
	}
	if err := try(n-1, false); err != nil {
		return nil, err
	}
	if err := try(-n-1, true); err != nil {
		return nil, err
	}
	return frags, nil
}
