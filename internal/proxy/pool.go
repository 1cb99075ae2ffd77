package proxy

import "sync"

// relayBufferSize is the per-direction copy buffer. Large enough to keep
// bulk transfers off the allocator without holding much memory per idle
// connection.
const relayBufferSize = 32 * 1024

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, relayBufferSize)
		return &b
	},
}
