package netsync

import (
	"bytes"
	"sync"
)

// BufferPool hands out reusable serialization buffers so a flush does not
// allocate per event. When the pool is empty Get falls back to a fresh
// allocation, which is the accepted degraded path rather than a failure.
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool creates a BufferPool.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				return new(bytes.Buffer)
			},
		},
	}
}

// Get returns an empty buffer ready for use. The buffer holds no data
// from prior uses.
func (p *BufferPool) Get() *bytes.Buffer {
	buf := p.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Put returns a buffer to the pool. Callers must not touch the buffer
// afterwards.
func (p *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	p.pool.Put(buf)
}
