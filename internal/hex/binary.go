package hex

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
)

// Writer encodes map data little-endian. The first error sticks; later writes
// are no-ops and Err reports it.
type Writer struct {
	w   *bufio.Writer
	buf [4]byte
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(p)
}

func (w *Writer) WriteByte(b byte) error {
	w.write([]byte{b})
	return w.err
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.write([]byte{1})
	} else {
		w.write([]byte{0})
	}
}

func (w *Writer) WriteInt32(v int32) {
	binary.LittleEndian.PutUint32(w.buf[:], uint32(v))
	w.write(w.buf[:4])
}

func (w *Writer) WriteFloat32(v float32) {
	binary.LittleEndian.PutUint32(w.buf[:], math.Float32bits(v))
	w.write(w.buf[:4])
}

// Flush pushes buffered bytes to the underlying writer
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

func (w *Writer) Err() error { return w.err }

// Reader decodes data written by Writer. A short read is reported as
// io.ErrUnexpectedEOF and sticks like Writer errors do.
type Reader struct {
	r   io.Reader
	buf [4]byte
	err error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

func (r *Reader) read(n int) []byte {
	if r.err != nil {
		return nil
	}
	if _, err := io.ReadFull(r.r, r.buf[:n]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
		return nil
	}
	return r.buf[:n]
}

func (r *Reader) ReadByte() (byte, error) {
	b := r.read(1)
	if b == nil {
		return 0, r.err
	}
	return b[0], nil
}

func (r *Reader) ReadBool() bool {
	b, _ := r.ReadByte()
	return b != 0
}

func (r *Reader) ReadInt32() int32 {
	b := r.read(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (r *Reader) ReadFloat32() float32 {
	b := r.read(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *Reader) Err() error { return r.err }
