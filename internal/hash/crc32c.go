package hash

import "github.com/klauspost/crc32"

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-C checksum of data. S3 reports the same checksum
// for uploads made with ChecksumAlgorithmCrc32c.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

