package gop

import (
	"encoding/binary"
	"unsafe"
)

// crcOnlyEngine holds just a CRC32C: it can detect but never correct.
// aux layout: [0:4) stored CRC state (uint32, little-endian).
type crcOnlyEngine struct{}

func (crcOnlyEngine) auxSize(_ []member, _ uintptr) int {
	return 4
}

func (crcOnlyEngine) generate(tbl []member, t unsafe.Pointer, aux []byte, _ uint64) {
	crc := crcInit
	for _, m := range tbl {
		crc = crcFold(crc, memberBytes(t, m))
	}
	binary.LittleEndian.PutUint32(aux[:4], crc)
}

func (crcOnlyEngine) detect(tbl []member, t unsafe.Pointer, aux []byte, _ uint64) bool {
	crc := crcInit
	for _, m := range tbl {
		crc = crcFold(crc, memberBytes(t, m))
	}
	return crc == binary.LittleEndian.Uint32(aux[:4])
}

// repair is never able to recover: there is no shadow to fall back to.
func (crcOnlyEngine) repair(_ []member, _ unsafe.Pointer, _ []byte, _ uint64) Verdict {
	return Unrecoverable
}

func (crcOnlyEngine) checksum(aux []byte) uint64 {
	return uint64(binary.LittleEndian.Uint32(aux[:4]))
}
