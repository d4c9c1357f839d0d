package pcgbreaker

import "encoding/binary"

// Table file layout constants (spec.md §6, SPEC_FULL.md §4.2).
const (
	// tableMagic identifies a pcg-breaker table.bin file.
	tableMagic = "PCGBTAB1"
	// tableVersion is the on-disk format version.
	tableVersion uint32 = 1
	// keyBits is the width of the bucket key (top bits of the 37-bit n value).
	keyBits = 17
	// bucketCount is the number of buckets, exactly 2^keyBits.
	bucketCount = 1 << keyBits
	// recordWidth is the width in bytes of one packed table record.
	recordWidth = 8
	// headerSize is the size in bytes of the fixed file header.
	headerSize = 32
	// nBits is the width of the n quantity the table is keyed on.
	nBits = 37
	// nMask masks a value down to nBits bits.
	nMask = uint64(1)<<nBits - 1
	// zetaBits is the number of zeta values the builder enumerates (the
	// table therefore holds exactly zetaCount records).
	zetaBits = 27
	// zetaCount is 2^zetaBits, the number of records in the table.
	zetaCount = 1 << zetaBits
	// betaMask masks a packed record down to its beta (low 27-bit) field.
	betaMask = uint64(1)<<zetaBits - 1
	// mInverse27 is M's multiplicative inverse modulo 2^zetaBits. buildRecord
	// stores beta = M*(-zeta) mod 2^zetaBits alongside n, so recovering zeta
	// from a record's beta field takes multiplying by this inverse: zeta =
	// -beta*mInverse27 mod 2^zetaBits.
	mInverse27 = 43919525
)

// tableHeader is the fixed-size header written at the start of table.bin.
type tableHeader struct {
	Magic       [8]byte
	Version     uint32
	RecordWidth uint32
	BucketCount uint32
	RecordCount uint32
}

// encode writes h into a headerSize-byte buffer.
func (h tableHeader) encode() []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:8], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[8:12], h.Version)
	binary.LittleEndian.PutUint32(buf[12:16], h.RecordWidth)
	binary.LittleEndian.PutUint32(buf[16:20], h.BucketCount)
	binary.LittleEndian.PutUint32(buf[20:24], h.RecordCount)
	return buf
}

// decodeTableHeader parses a headerSize-byte buffer into a tableHeader.
func decodeTableHeader(buf []byte) (tableHeader, error) {
	if len(buf) < headerSize {
		return tableHeader{}, newBreakerError(KindCorruptTable, "table header truncated", nil)
	}
	var h tableHeader
	copy(h.Magic[:], buf[0:8])
	h.Version = binary.LittleEndian.Uint32(buf[8:12])
	h.RecordWidth = binary.LittleEndian.Uint32(buf[12:16])
	h.BucketCount = binary.LittleEndian.Uint32(buf[16:20])
	h.RecordCount = binary.LittleEndian.Uint32(buf[20:24])
	if string(h.Magic[:]) != tableMagic {
		return h, newBreakerError(KindCorruptTable, "bad table magic", nil)
	}
	if h.Version != tableVersion {
		return h, newBreakerError(KindCorruptTable, "unsupported table version", nil)
	}
	if h.RecordWidth != recordWidth {
		return h, newBreakerError(KindCorruptTable, "unexpected record width", nil)
	}
	if h.BucketCount != bucketCount {
		return h, newBreakerError(KindCorruptTable, "unexpected bucket count", nil)
	}
	return h, nil
}

// tableRecord is one entry of the precomputed table: the 37-bit key n and
// the 27-bit beta field from which zeta is recovered, packed as
// (n << 27) | beta as in the reference implementation (see buildRecord).
type tableRecord uint64

// buildRecord packs the table entry for a given zeta, following the
// reference builder's arithmetic exactly: product = M * (-zeta) mod 2^64;
// the top 37 bits of product, negated mod 2^37, become n, the bottom 27 bits
// become beta.
func buildRecord(zeta uint64) tableRecord {
	product := M * (-zeta)
	negativeN := product >> zetaBits
	beta := product & betaMask
	n := (-negativeN) & nMask
	return tableRecord(n<<zetaBits | beta)
}

// n returns the 37-bit key quantity encoded in the record.
func (r tableRecord) n() uint64 {
	return uint64(r) >> zetaBits
}

// fragment returns the low 27-bit beta field packed alongside n: the raw
// bytes of the record, exactly as buildRecord derived them from its zeta.
// It is not itself a usable zeta value; see zetaFromFragment.
func (r tableRecord) fragment() uint64 {
	return uint64(r) & betaMask
}

// zetaFromFragment inverts buildRecord's beta = M*(-zeta) mod 2^zetaBits,
// recovering the zeta that produced a given fragment. QueryFragments needs
// this because a record only stores beta, not zeta itself.
func zetaFromFragment(beta uint64) uint64 {
	return (-beta * mInverse27) & betaMask
}

// key17 returns the top 17 bits of the record's n value: the bucket this
// record belongs in.
func key17(n uint64) uint32 {
	return uint32(n >> (nBits - keyBits))
}

func encodeRecord(r tableRecord) []byte {
	buf := make([]byte, recordWidth)
	binary.LittleEndian.PutUint64(buf, uint64(r))
	return buf
}

func decodeRecord(buf []byte) tableRecord {
	return tableRecord(binary.LittleEndian.Uint64(buf))
}
