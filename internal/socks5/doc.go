// Package socks5 adapts the low-level protocol types in
// github.com/txthinking/socks5 into the small server-side surface the proxy
// needs: authenticate an accepted connection, wait for its command, and
// send a reply.
//
// It also implements the SOCKS5 UDP relay framing used by the ASSOCIATE
// path. This package is not a full SOCKS5 implementation; it is a thin
// layer around the library primitives with strict truncation handling.
package socks5
