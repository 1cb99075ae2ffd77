// Package proxy implements the SOCKS5 relay: the per-connection
// orchestrator, outbound connector, HTTP sniffing and User-Agent rewriting
// pipeline, bidirectional relay engine, UDP associate relay, and the
// admission gate bounding concurrent connections.
package proxy
