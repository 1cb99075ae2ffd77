package proxy

import "time"

type Config struct {
	// DialTimeout bounds outbound DNS lookup and TCP connect.
	DialTimeout time.Duration

	// MaxConnections bounds concurrently active client connections.
	MaxConnections int64

	// CacheTTL and CacheSize configure the non-HTTP destination memo.
	CacheTTL  time.Duration
	CacheSize int
}
