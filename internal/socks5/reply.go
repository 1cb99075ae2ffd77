package socks5

import (
	"fmt"
	"net"

	txsocks5 "github.com/txthinking/socks5"
)

// Reply codes produced by the proxy.
const (
	RepSuccess             = txsocks5.RepSuccess
	RepHostUnreachable     = txsocks5.RepHostUnreachable
	RepTTLExpired          = txsocks5.RepTTLExpired
	RepCommandNotSupported = txsocks5.RepCommandNotSupported
	RepAddressNotSupported = txsocks5.RepAddressNotSupported
)

// Reply sends a SOCKS5 reply with the given code. bnd is the bound local
// address reported to the client; nil sends the zero address, which is what
// every non-success reply carries.
func (c *Conn) Reply(rep byte, bnd net.Addr) error {
	if bnd == nil {
		if _, err := newZeroAddrReply(rep, txsocks5.ATYPIPv4).WriteTo(c.Conn); err != nil {
			return fmt.Errorf("reply: %w", err)
		}
		return nil
	}

	a, addr, port, err := txsocks5.ParseAddress(bnd.String())
	if err != nil {
		return fmt.Errorf("parse bound address %q: %w", bnd.String(), err)
	}
	if a == txsocks5.ATYPDomain {
		addr = addr[1:]
	}
	if _, err := txsocks5.NewReply(rep, a, addr, port).WriteTo(c.Conn); err != nil {
		return fmt.Errorf("reply: %w", err)
	}
	return nil
}

func newZeroAddrReply(rep, atyp byte) *txsocks5.Reply {
	if atyp == txsocks5.ATYPIPv6 {
		return txsocks5.NewReply(rep, txsocks5.ATYPIPv6, []byte(net.IPv6zero), []byte{0x00, 0x00})
	}
	return txsocks5.NewReply(rep, txsocks5.ATYPIPv4, []byte{0x00, 0x00, 0x00, 0x00}, []byte{0x00, 0x00})
}
