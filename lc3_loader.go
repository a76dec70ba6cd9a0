package main

import (
	"encoding/binary"
	"fmt"
	"io"
)

// LoadImage reads an object image from r and stores it into mem. The first
// two bytes are a big-endian origin address; every following pair of bytes
// is a big-endian word stored at increasing addresses starting at origin.
// A trailing odd byte is silently discarded (matching the reference
// interpreter's fread-based load, which only ever consumes whole words).
// Loading stops early if origin+offset would run past the end of the
// address space: at most 0x10000-origin words are stored.
//
// Multiple images may be loaded sequentially into the same Memory; later
// writes overwrite earlier ones at overlapping addresses.
func LoadImage(mem *Memory, r io.Reader) (origin uint16, words int, err error) {
	var originBuf [2]byte
	if _, err := io.ReadFull(r, originBuf[:]); err != nil {
		return 0, 0, fmt.Errorf("lc3: read image origin: %w", err)
	}
	origin = binary.BigEndian.Uint16(originBuf[:])

	addr := uint32(origin)
	var wordBuf [2]byte
	for addr < 1<<16 {
		n, err := io.ReadFull(r, wordBuf[:])
		if n == 2 {
			mem.Write(uint16(addr), binary.BigEndian.Uint16(wordBuf[:]))
			addr++
			words++
			continue
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		return origin, words, fmt.Errorf("lc3: read image body: %w", err)
	}
	return origin, words, nil
}
