// Package snapshot serializes layouts into self-describing binary blobs.
//
// Format (little endian):
//
//	magic       [4]byte  "RLXS"
//	version     uint8
//	compression uint8
//	codecLen    uint8
//	codec       [codecLen]byte
//	size        uint32   uncompressed payload length
//	checksum    uint32   CRC32-C of the uncompressed payload
//	payload     [...]byte
//
// The codec name lets Decode pick the codec that wrote the snapshot.
package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/relax/codec"
	"github.com/hupe1980/relax/internal/hash"
	"github.com/hupe1980/relax/layout"
)

const (
	magic         = "RLXS"
	formatVersion = 1
	fixedHeader   = len(magic) + 3
)

var (
	// ErrCorrupt is returned for truncated, mislabeled or checksum-failing data.
	ErrCorrupt = errors.New("corrupt snapshot")

	// ErrUnknownCodec is returned when a snapshot names a codec this build
	// does not know.
	ErrUnknownCodec = errors.New("unknown snapshot codec")
)

type options struct {
	codec       codec.Codec
	compression Compression
}

// Option configures Encode.
type Option func(*options)

// WithCodec selects the payload codec. Nil means codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression selects the payload compression.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// Encode writes l into a snapshot.
func Encode(l *layout.Layout, optFns ...Option) ([]byte, error) {
	o := options{codec: codec.Default, compression: CompressionZSTD}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	name := o.codec.Name()
	if len(name) > 255 {
		return nil, fmt.Errorf("codec name %q too long", name)
	}

	payload, err := l.Marshal(o.codec)
	if err != nil {
		return nil, err
	}
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("payload of %d bytes exceeds limit %d", len(payload), MaxPayloadSize)
	}
	body, used, err := compress(payload, o.compression)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, fixedHeader+len(name)+8+len(body))
	out = append(out, magic...)
	out = append(out, formatVersion, byte(used), byte(len(name)))
	out = append(out, name...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	out = binary.LittleEndian.AppendUint32(out, hash.CRC32C(payload))
	out = append(out, body...)
	return out, nil
}

// Decode parses a snapshot produced by Encode.
func Decode(data []byte) (*layout.Layout, error) {
	if len(data) < fixedHeader || string(data[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if v := data[len(magic)]; v != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	comp := Compression(data[len(magic)+1])
	nameLen := int(data[len(magic)+2])

	off := fixedHeader
	if len(data) < off+nameLen+8 {
		return nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	name := string(data[off : off+nameLen])
	off += nameLen

	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	size := binary.LittleEndian.Uint32(data[off:])
	sum := binary.LittleEndian.Uint32(data[off+4:])
	off += 8

	payload, err := decompress(data[off:], comp, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if hash.CRC32C(payload) != sum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	l, err := layout.Unmarshal(c, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return l, nil
}
