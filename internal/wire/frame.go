// Package wire implements the framing layer of the connection: 8-byte
// length+magic headers around opaque payloads, and resolution of the
// leading signed kind code of every payload.
package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// FrameReader reads length-delimited frames from a byte stream. It owns
// the payload buffer: slices returned by ReadFrame / ReadMessage are only
// valid until the next read call.
type FrameReader struct {
	r   *bufio.Reader
	buf []byte
}

// NewFrameReader wraps r; the initial payload buffer grows on demand.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{
		r:   bufio.NewReader(r),
		buf: make([]byte, 0, 1024),
	}
}

// ReadFrame reads one frame and returns its payload. Short reads surface
// as the underlying I/O error (io.ErrUnexpectedEOF mid-frame), never as a
// truncated payload.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(fr.r, header[:]); err != nil {
		return nil, err
	}
	length := binary.LittleEndian.Uint32(header[0:4])
	if [4]byte(header[4:8]) != Magic {
		return nil, ErrInvalidHeader
	}
	if length > MaxPayloadSize {
		return nil, ErrInvalidHeader
	}

	logrus.WithFields(logrus.Fields{
		"length": length,
	}).Debug("frame header")

	if cap(fr.buf) < int(length) {
		fr.buf = make([]byte, length)
	}
	fr.buf = fr.buf[:length]
	if _, err := io.ReadFull(fr.r, fr.buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return fr.buf, nil
}

// ReadMessage reads one frame and resolves its kind.
func (fr *FrameReader) ReadMessage() (RawMessage, error) {
	payload, err := fr.ReadFrame()
	if err != nil {
		return RawMessage{}, err
	}
	return ParseRawMessage(payload)
}

// FrameWriter writes frames to a byte stream. Each frame goes out as one
// contiguous write (header + payload) followed by a flush; concurrent
// callers are serialized by the internal mutex.
type FrameWriter struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewFrameWriter wraps w.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: bufio.NewWriter(w)}
}

// WriteFrame frames payload and flushes it.
func (fw *FrameWriter) WriteFrame(payload []byte) error {
	if len(payload) > MaxPayloadSize {
		return errors.New("payload too large")
	}
	fw.mu.Lock()
	defer fw.mu.Unlock()

	full := make([]byte, HeaderSize+len(payload))
	binary.LittleEndian.PutUint32(full[0:4], uint32(len(payload)))
	copy(full[4:8], Magic[:])
	copy(full[8:], payload)

	if _, err := fw.w.Write(full); err != nil {
		return err
	}
	return fw.w.Flush()
}
