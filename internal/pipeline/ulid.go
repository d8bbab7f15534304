package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Dependency-free ULID generator: 26-character Crockford Base32
// strings with a 48-bit millisecond timestamp prefix, so document ids
// sort by creation time.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func generateULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	// Timestamp in first 6 bytes (big-endian 48-bit).
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	// Random in remaining 10 bytes.
	rand.Read(b[6:])
	// Embed sequence in bytes 6-7 to ensure uniqueness within same ms.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeULID(b)
}

// encodeULID renders 128 bits as 26 Crockford Base32 characters. The
// first character carries only the top 3 bits, every later one 5.
func encodeULID(b [16]byte) string {
	var out [26]byte
	out[0] = crockford[b[0]>>5]
	pos := uint(3)
	for i := 1; i < 26; i++ {
		out[i] = crockford[bitsAt(b, pos)]
		pos += 5
	}
	return string(out[:])
}

// bitsAt extracts the 5 bits starting at bit offset start.
func bitsAt(b [16]byte, start uint) byte {
	byteIdx := start / 8
	v := uint16(b[byteIdx]) << 8
	if byteIdx+1 < uint(len(b)) {
		v |= uint16(b[byteIdx+1])
	}
	v <<= start % 8
	return byte(v >> 11)
}
