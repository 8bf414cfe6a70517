// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"io"
	"slices"
	"sync"
)

// inputPump owns every read of a Runner's stdin. A single goroutine reads
// the source for the lifetime of the Runner; interactive children and the
// Runner's other consumers take chunks from it in turn, so input that
// arrives after a child exits stays available to the next reader.
type inputPump struct {
	src    io.Reader
	once   sync.Once
	chunks chan []byte

	mu      sync.Mutex
	pending []byte
	err     error
}

func newInputPump(src io.Reader) *inputPump {
	return &inputPump{src: src, chunks: make(chan []byte)}
}

func (p *inputPump) start() {
	p.once.Do(func() { go p.loop() })
}

func (p *inputPump) loop() {
	for {
		buf := make([]byte, 4096)
		n, err := p.src.Read(buf)
		if n > 0 {
			p.chunks <- buf[:n]
		}
		if err != nil {
			p.mu.Lock()
			p.err = err
			p.mu.Unlock()
			close(p.chunks)
			return
		}
	}
}

// takePending removes and returns buffered input, if any.
func (p *inputPump) takePending() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	b := p.pending
	p.pending = nil
	return b
}

// unread puts b back in front of any buffered input.
func (p *inputPump) unread(b []byte) {
	if len(b) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = slices.Concat(b, p.pending)
}

func (p *inputPump) readErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		return io.EOF
	}
	return p.err
}

// Read implements io.Reader.
func (p *inputPump) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	chunk := p.takePending()
	if len(chunk) == 0 {
		p.start()
		var ok bool
		if chunk, ok = <-p.chunks; !ok {
			return 0, p.readErr()
		}
	}
	n := copy(b, chunk)
	p.unread(chunk[n:])
	return n, nil
}

// forward writes input to w until done is closed or the source ends.
// A chunk received after done is closed, or one w refuses, is kept for
// the next reader.
func (p *inputPump) forward(w io.Writer, done <-chan struct{}) {
	for {
		chunk := p.takePending()
		if len(chunk) == 0 {
			p.start()
			var ok bool
			select {
			case chunk, ok = <-p.chunks:
				if !ok {
					return
				}
			case <-done:
				return
			}
		}

		select {
		case <-done:
			p.unread(chunk)
			return
		default:
		}

		n, err := w.Write(chunk)
		if err != nil {
			p.unread(chunk[n:])
			return
		}
	}
}
