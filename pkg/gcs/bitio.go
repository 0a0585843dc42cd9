// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package gcs

import (
	"bufio"
	"errors"
	"io"
)

var errTooManyBits = errors.New("cannot move more than 64 bits at a time")

// bitReader reads single bits and bit runs from a seekable source.
type bitReader struct {
	inner  io.ReadSeeker
	buffer []byte
	unused uint8
}

func newBitReader(r io.ReadSeeker) *bitReader {
	return &bitReader{inner: r, buffer: make([]byte, 1)}
}

// Reset drops any buffered bits. The next read loads a fresh byte from the current
// position of the source.
func (r *bitReader) Reset() {
	r.buffer[0] = 0
	r.unused = 0
}

// ReadBit reads a single bit.
func (r *bitReader) ReadBit() (uint8, error) {
	bit, err := r.ReadBits(1)
	return uint8(bit), err
}

// ReadBits reads up to 64 bits, most significant first.
func (r *bitReader) ReadBits(n uint8) (uint64, error) {
	if n > 64 {
		return 0, errTooManyBits
	}

	ret := uint64(0)
	pending := n

	for pending > r.unused {
		ret |= uint64(r.buffer[0]) << (pending - r.unused)
		pending -= r.unused

		if _, err := io.ReadFull(r.inner, r.buffer); err != nil {
			return 0, err
		}
		r.unused = 8
	}

	if pending > 0 {
		ret |= uint64(r.buffer[0]) >> (r.unused - pending)
		r.buffer[0] &= (1 << (r.unused - pending)) - 1
		r.unused -= pending
	}

	return ret, nil
}

// SeekBit moves to an absolute bit position of the source.
func (r *bitReader) SeekBit(pos uint64) error {
	r.Reset()
	if _, err := r.inner.Seek(int64(pos/8), io.SeekStart); err != nil {
		return err
	}

	_, err := r.ReadBits(uint8(pos % 8))
	return err
}

type writerAndByteWriter interface {
	io.Writer
	io.ByteWriter
}

// bitWriter adds bit-level writing to any io.Writer.
type bitWriter struct {
	inner   writerAndByteWriter
	wrapper *bufio.Writer // set when the target is not an io.ByteWriter
	buffer  uint8         // pending bits, left aligned
	used    uint8         // number of pending bits in buffer
}

func newBitWriter(out io.Writer) *bitWriter {
	w := &bitWriter{}
	var ok bool
	if w.inner, ok = out.(writerAndByteWriter); !ok {
		w.wrapper = bufio.NewWriter(out)
		w.inner = w.wrapper
	}
	return w
}

// WriteBits writes the n lowest bits of v, most significant first.
func (w *bitWriter) WriteBits(n uint8, v uint64) error {
	if n > 64 {
		return errTooManyBits
	}
	if n < 64 {
		v &= 1<<n - 1
	}

	for n > 0 {
		free := 8 - w.used
		take := free
		if n < take {
			take = n
		}

		chunk := uint8(v>>(n-take)) & (1<<take - 1)
		w.buffer |= chunk << (free - take)
		w.used += take
		n -= take

		if w.used == 8 {
			if err := w.inner.WriteByte(w.buffer); err != nil {
				return err
			}
			w.buffer, w.used = 0, 0
		}
	}

	return nil
}

// Flush pads the pending bits with zeros up to a byte boundary, writes them and
// flushes the internal buffer if there is one. It returns the padding bit count.
func (w *bitWriter) Flush() (uint64, error) {
	var padding uint64
	if w.used > 0 {
		if err := w.inner.WriteByte(w.buffer); err != nil {
			return 0, err
		}
		padding = uint64(8 - w.used)
		w.buffer, w.used = 0, 0
	}

	if w.wrapper != nil {
		return padding, w.wrapper.Flush()
	}
	return padding, nil
}
