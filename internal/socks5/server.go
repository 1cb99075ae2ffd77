package socks5

import (
	"fmt"
	"net"

	txsocks5 "github.com/txthinking/socks5"
)

// Command values a client may request.
const (
	CmdConnect = txsocks5.CmdConnect
	CmdBind    = txsocks5.CmdBind
	CmdUDP     = txsocks5.CmdUDP
)

// Address types used in requests and datagrams.
const (
	ATYPIPv4   = txsocks5.ATYPIPv4
	ATYPDomain = txsocks5.ATYPDomain
	ATYPIPv6   = txsocks5.ATYPIPv6
)

// Request is the parsed SOCKS5 command frame.
type Request = txsocks5.Request

// Conn is an accepted client connection progressing through the SOCKS5
// server handshake. Methods must be called in order: Authenticate, Wait,
// then Reply.
type Conn struct {
	net.Conn
}

// NewConn wraps an accepted client connection.
func NewConn(c net.Conn) *Conn {
	return &Conn{Conn: c}
}

// Authenticate performs method negotiation. Only the no-auth method is
// offered; clients that cannot do no-auth are refused.
func (c *Conn) Authenticate() error {
	neg, err := txsocks5.NewNegotiationRequestFrom(c.Conn)
	if err != nil {
		return fmt.Errorf("negotiation request: %w", err)
	}

	if !containsMethod(neg.Methods, txsocks5.MethodNone) {
		// RFC 1928: 0xFF indicates no acceptable methods.
		_, _ = txsocks5.NewNegotiationReply(0xff).WriteTo(c.Conn)
		return fmt.Errorf("client does not support no-auth")
	}

	if _, err := txsocks5.NewNegotiationReply(txsocks5.MethodNone).WriteTo(c.Conn); err != nil {
		return fmt.Errorf("negotiation reply: %w", err)
	}
	return nil
}

// Wait reads the client's command request.
func (c *Conn) Wait() (*Request, error) {
	req, err := txsocks5.NewRequestFrom(c.Conn)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	return req, nil
}

func containsMethod(methods []byte, want byte) bool {
	for _, m := range methods {
		if m == want {
			return true
		}
	}
	return false
}
