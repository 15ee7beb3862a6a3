package gop

import (
	"encoding/binary"
	"unsafe"
)

// crcDMREngine is CRC+DMR: CRC32C plus a shadow copy.
// aux layout: [0:4) stored CRC state (uint32, little-endian), [4:4+total) shadow.
type crcDMREngine struct{}

func (crcDMREngine) auxSize(_ []member, total uintptr) int {
	return 4 + int(total)
}

func (crcDMREngine) generate(tbl []member, t unsafe.Pointer, aux []byte, _ uint64) {
	shadow := aux[4:]
	crc := crcInit
	for _, m := range tbl {
		src := memberBytes(t, m)
		copy(shadowBytes(shadow, m), src)
		crc = crcFold(crc, src)
	}
	binary.LittleEndian.PutUint32(aux[:4], crc)
}

func (crcDMREngine) detect(tbl []member, t unsafe.Pointer, aux []byte, _ uint64) bool {
	crc := crcInit
	for _, m := range tbl {
		crc = crcFold(crc, memberBytes(t, m))
	}
	return crc == binary.LittleEndian.Uint32(aux[:4])
}

func (crcDMREngine) repair(tbl []member, t unsafe.Pointer, aux []byte, _ uint64) Verdict {
	shadow := aux[4:]

	crcT := crcInit
	crcShadow := crcInit
	for _, m := range tbl {
		crcT = crcFold(crcT, memberBytes(t, m))
		crcShadow = crcFold(crcShadow, shadowBytes(shadow, m))
	}
	storedCRC := binary.LittleEndian.Uint32(aux[:4])

	switch {
	case crcShadow == storedCRC:
		binary.LittleEndian.PutUint32(aux[:4], ^crcShadow)
		for _, m := range tbl {
			copy(memberBytes(t, m), shadowBytes(shadow, m))
		}
		binary.LittleEndian.PutUint32(aux[:4], crcShadow)
		return Corrected

	case crcShadow == crcT:
		// Stored CRC faulty, or shadow/T co-corruption aliasing a valid
		// CRC — same documented, deliberately-unheuristic edge case as
		// SUM+DMR (see SPEC_FULL.md §9).
		binary.LittleEndian.PutUint32(aux[:4], crcT)
		return Corrected

	default:
		return Unrecoverable
	}
}

func (crcDMREngine) checksum(aux []byte) uint64 {
	return uint64(binary.LittleEndian.Uint32(aux[:4]))
}
