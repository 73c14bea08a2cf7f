// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package wire implements the primitive encoding layer of the cluster state
// wire format: unsigned varints for counts and small integers, 8-byte
// big-endian int64s, length-prefixed strings, and single-byte booleans.
// The layout is a byte-for-byte contract between cluster members.
package wire

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/juju/errors"
)

// maxStringLength bounds on-wire strings. Resource names and block
// descriptions are short; anything beyond this is a corrupt stream.
const maxStringLength = 1 << 16

// Writer encodes primitive values to an underlying stream.
type Writer struct {
	w   io.Writer
	buf [binary.MaxVarintLen64]byte
}

// NewWriter returns a Writer encoding to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteUvarint writes v as an unsigned varint.
func (w *Writer) WriteUvarint(v uint64) error {
	n := binary.PutUvarint(w.buf[:], v)
	_, err := w.w.Write(w.buf[:n])
	return errors.Trace(err)
}

// WriteInt64 writes v as 8 big-endian bytes.
func (w *Writer) WriteInt64(v int64) error {
	binary.BigEndian.PutUint64(w.buf[:8], uint64(v))
	_, err := w.w.Write(w.buf[:8])
	return errors.Trace(err)
}

// WriteString writes the string length as an unsigned varint followed by
// the raw bytes.
func (w *Writer) WriteString(s string) error {
	if len(s) > maxStringLength {
		return errors.Errorf("string length %d exceeds wire limit %d", len(s), maxStringLength)
	}
	if err := w.WriteUvarint(uint64(len(s))); err != nil {
		return errors.Trace(err)
	}
	_, err := io.WriteString(w.w, s)
	return errors.Trace(err)
}

// WriteByte writes a single raw byte.
func (w *Writer) WriteByte(b byte) error {
	w.buf[0] = b
	_, err := w.w.Write(w.buf[:1])
	return errors.Trace(err)
}

// WriteBool writes v as one byte, 0 or 1.
func (w *Writer) WriteBool(v bool) error {
	var b byte
	if v {
		b = 1
	}
	return w.WriteByte(b)
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

// Reader decodes primitive values from an underlying stream. Decoding
// failures, including truncated input, surface as traced errors.
type Reader struct {
	r byteReader
}

// NewReader returns a Reader decoding from r. The reader buffers r unless
// it already supports byte-at-a-time reads.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br}
}

// ReadUvarint reads an unsigned varint.
func (r *Reader) ReadUvarint() (uint64, error) {
	v, err := binary.ReadUvarint(r.r)
	return v, errors.Trace(err)
}

// ReadInt64 reads 8 big-endian bytes as an int64.
func (r *Reader) ReadInt64() (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return 0, errors.Trace(err)
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

// ReadString reads a length-prefixed string.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUvarint()
	if err != nil {
		return "", errors.Trace(err)
	}
	if n > maxStringLength {
		return "", errors.Errorf("string length %d exceeds wire limit %d", n, maxStringLength)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return "", errors.Trace(err)
	}
	return string(buf), nil
}

// ReadByte reads a single raw byte.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	return b, errors.Trace(err)
}

// ReadBool reads a boolean written by WriteBool.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, errors.Trace(err)
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.Errorf("invalid boolean byte 0x%02x", b)
}
