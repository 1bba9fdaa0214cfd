package hashira

import (
	"bytes"
	"errors"
	"io"
)

// ErrBodyConsumed is returned when a streaming body is read twice.
var ErrBodyConsumed = errors.New("hashira: streaming body already consumed")

// Body is the payload of a request or response. It is either fully
// buffered bytes or a lazy, single-consumption byte stream whose
// back-pressure comes from the underlying transport.
type Body struct {
	bytes    []byte
	stream   io.ReadCloser
	consumed bool
}

// EmptyBody returns a buffered body with no content.
func EmptyBody() *Body {
	return &Body{}
}

// BodyFromBytes wraps buffered bytes in a body.
func BodyFromBytes(b []byte) *Body {
	return &Body{bytes: b}
}

// BodyFromString wraps a string in a buffered body.
func BodyFromString(s string) *Body {
	return &Body{bytes: []byte(s)}
}

// BodyFromReader wraps a reader in a streaming body. The reader is
// consumed at most once; ownership transfers to whichever adapter
// serves the response.
func BodyFromReader(rc io.ReadCloser) *Body {
	return &Body{stream: rc}
}

// StreamBody returns a writer and a streaming body connected by a
// pipe. Writes block until the serving side reads, which gives the
// producer transport-level back-pressure for free.
func StreamBody() (io.WriteCloser, *Body) {
	pr, pw := io.Pipe()
	return pw, &Body{stream: pr}
}

// IsStream reports whether the body is lazy rather than buffered.
func (b *Body) IsStream() bool {
	return b != nil && b.stream != nil
}

// Len returns the buffered length, or -1 for streams.
func (b *Body) Len() int {
	if b == nil {
		return 0
	}
	if b.stream != nil {
		return -1
	}
	return len(b.bytes)
}

// Reader returns the body contents as a reader. Buffered bodies can be
// read any number of times; a stream is handed out once and
// ErrBodyConsumed afterwards.
func (b *Body) Reader() (io.ReadCloser, error) {
	if b == nil {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	if b.stream == nil {
		return io.NopCloser(bytes.NewReader(b.bytes)), nil
	}
	if b.consumed {
		return nil, ErrBodyConsumed
	}
	b.consumed = true
	return b.stream, nil
}

// Bytes buffers the whole body and returns it. For streams this drains
// the reader, so it counts as the single consumption.
func (b *Body) Bytes() ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	if b.stream == nil {
		return b.bytes, nil
	}
	rc, err := b.Reader()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
