package consoleimg

import (
	"encoding/base64"
	"sync"
)

const (
	KITTY_CHUNK_SIZE        = 4096                     // encoded bytes per APC chunk
	KITTY_BASE64_CHUNK_SIZE = 3 * KITTY_CHUNK_SIZE / 4 // raw bytes per APC chunk
)

// Pooled scratch buffers for base64 output.
var base64BufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, KITTY_CHUNK_SIZE)
		return &buf
	},
}

// Base64Encode encodes src with the standard alphabet using a pooled buffer.
func Base64Encode(src []byte) string {
	bufPtr := base64BufferPool.Get().(*[]byte)
	defer base64BufferPool.Put(bufPtr)

	n := base64.StdEncoding.EncodedLen(len(src))
	if cap(*bufPtr) < n {
		*bufPtr = make([]byte, n)
	}
	buf := (*bufPtr)[:n]
	base64.StdEncoding.Encode(buf, src)
	return string(buf)
}

// EncodeChunks splits data into chunkSize pieces and base64-encodes each,
// returning the encoded pieces in order. Small payloads are encoded inline.
func EncodeChunks(data []byte, chunkSize int) ([]string, error) {
	numChunks := (len(data) + chunkSize - 1) / chunkSize
	encode := func(i int) (string, error) {
		start := i * chunkSize
		end := min(start+chunkSize, len(data))
		return Base64Encode(data[start:end]), nil
	}

	if numChunks <= 2 {
		out := make([]string, numChunks)
		for i := range numChunks {
			out[i], _ = encode(i)
		}
		return out, nil
	}
	return parallelMap("EncodeChunks", numChunks, encode)
}
