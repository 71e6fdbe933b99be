package containers

import (
	"errors"
	"hash/crc32"

	"github.com/sigurn/crc16"
	"github.com/sigurn/crc8"
)

// The HDT container format checksums every piece of the file: CRC-8/SMBUS
// over container headers, CRC-16/ARC over control blocks, CRC-32/iSCSI
// (Castagnoli) over payload data.

var (
	crc8Table  = crc8.MakeTable(crc8.CRC8)
	crc16Table = crc16.MakeTable(crc16.CRC16_ARC)
	crc32Table = crc32.MakeTable(crc32.Castagnoli)
)

var (
	// ErrFormat reports a malformed or unexpected container structure
	ErrFormat = errors.New("malformed hdt container")

	// ErrChecksum reports a checksum mismatch in a container
	ErrChecksum = errors.New("hdt container checksum mismatch")
)

// Checksum8 returns the CRC-8/SMBUS checksum of b
func Checksum8(b []byte) uint8 {
	return crc8.Checksum(b, crc8Table)
}

// Checksum16 returns the CRC-16/ARC checksum of b
func Checksum16(b []byte) uint16 {
	return crc16.Checksum(b, crc16Table)
}

// Checksum32 returns the CRC-32/iSCSI checksum of b
func Checksum32(b []byte) uint32 {
	return crc32.Checksum(b, crc32Table)
}
