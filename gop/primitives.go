package gop

import (
	"encoding/binary"
	"hash/crc32"
	"hash/fnv"
	"math/bits"
	"reflect"
	"unsafe"
)

// crc32cTable is the reflected Castagnoli CRC32 table. crc32.MakeTable picks
// a hardware-accelerated implementation (SSE4.2 CRC32 on amd64, the CRC
// extension on arm64) when the platform supports it and falls back to a
// software slicing table otherwise — this is the "pluggable primitive
// table, hardware intrinsics where available" requirement, served by the
// standard library rather than hand-rolled per-architecture assembly.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// crcInit is the CRC state the spec mandates engines start from.
const crcInit uint32 = 0xFFFFFFFF

// memberBytes returns a byte view of member m as it currently lives inside
// the target at t. It never escapes past the caller and must not be
// retained.
func memberBytes(t unsafe.Pointer, m member) []byte {
	return unsafe.Slice((*byte)(unsafe.Add(t, m.fieldOffset)), int(m.size))
}

// shadowBytes returns the slice of a shadow region (aux[base:]) holding
// member m's image.
func shadowBytes(shadow []byte, m member) []byte {
	return shadow[m.currentOffset:m.nextOffset]
}

// foldSum folds data into sum using a sign-extended two's-complement
// accumulation matched to the data's natural chunk width, processing
// 8/4/2/1-byte chunks from the front.
func foldSum(sum int64, data []byte) int64 {
	for len(data) >= 8 {
		sum += int64(binary.LittleEndian.Uint64(data[:8]))
		data = data[8:]
	}
	if len(data) >= 4 {
		sum += int64(int32(binary.LittleEndian.Uint32(data[:4])))
		data = data[4:]
	}
	if len(data) >= 2 {
		sum += int64(int16(binary.LittleEndian.Uint16(data[:2])))
		data = data[2:]
	}
	if len(data) == 1 {
		sum += int64(int8(data[0]))
	}
	return sum
}

// crcFold continues a running (uncomplemented) CRC32C state over data.
func crcFold(state uint32, data []byte) uint32 {
	return crc32.Update(state, crc32cTable, data)
}

// instanceHash16 computes the 16-bit per-target hash SUM+DMR uses as its
// initial sum for per-instance variants, so that an all-zero target does
// not checksum to zero ("zero blindness"). It is derived once per type from
// the type's field layout, which is the nearest Go equivalent of a
// compile-time per-template hash literal.
func instanceHash16(t reflect.Type) uint16 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(t.PkgPath()))
	_, _ = h.Write([]byte(t.Name()))
	for i := 0; i < t.NumField(); i++ {
		_, _ = h.Write([]byte(t.Field(i).Name))
	}
	sum := h.Sum32()
	return uint16(sum ^ (sum >> 16))
}

// assembleBuffer copies every participating member's live bytes into a
// word-aligned buffer shaped like the planner's conceptual shadow region,
// for schemes (Hamming) that need to process the target as a stream of
// machine words rather than per-member.
func assembleBuffer(tbl []member, t unsafe.Pointer, total uintptr) []byte {
	buf := make([]byte, alignUp(total, wordSize))
	for _, m := range tbl {
		copy(buf[m.currentOffset:], memberBytes(t, m))
	}
	return buf
}

// wordsOf reinterprets buf (whose length must be a multiple of 8) as a
// slice of little-endian machine words.
func wordsOf(buf []byte) []uint64 {
	words := make([]uint64, len(buf)/wordSize)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(buf[i*wordSize:])
	}
	return words
}

// bufAddr maps a byte offset inside a conceptual shadow/assembled buffer
// back to the live address in t it came from, if any member covers it.
// Offsets that fall in inter-member alignment padding have no live address.
func bufAddr(tbl []member, t unsafe.Pointer, off uintptr) (unsafe.Pointer, bool) {
	for _, m := range tbl {
		if off >= m.currentOffset && off < m.nextOffset {
			return unsafe.Add(t, m.fieldOffset+(off-m.currentOffset)), true
		}
	}
	return nil, false
}

// nextSamePopcount returns the next larger integer with the same number of
// set bits as v (Hacker's Delight, "next higher number with same number of
// 1 bits"). v must be nonzero.
func nextSamePopcount(v uint64) uint64 {
	t := v | (v - 1)
	return (t + 1) | (((^t & -^t) - 1) >> (uint(bits.TrailingZeros64(v)) + 1))
}

// generateColumns produces the M parity-matrix columns Hamming assigns to
// machine-word positions 0..M-1: the lexicographically smallest
// weight->=2 pattern under 2^dim, stepping to the next same-popcount
// pattern each time and bumping the popcount floor on overflow. Columns are
// deterministic for a given (M, dim) pair and are meant to be generated
// once and reused across generate/check/repair.
func generateColumns(m, dim int) []uint64 {
	cols := make([]uint64, m)
	limit := uint64(1) << uint(dim)
	popcount := 2
	col := uint64(1)<<uint(popcount) - 1 // smallest weight-2 pattern: 0b11

	for i := 0; i < m; i++ {
		for col >= limit {
			popcount++
			col = uint64(1)<<uint(popcount) - 1
		}
		cols[i] = col
		col = nextSamePopcount(col)
	}
	return cols
}

// hammingDimFor returns the smallest R such that m + R + 1 <= 2^R, where m
// is the number of machine words the target spans.
func hammingDimFor(m int) int {
	for r := 1; ; r++ {
		if uint64(m)+uint64(r)+1 <= uint64(1)<<uint(r) {
			return r
		}
	}
}
