package socks5

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"
)

// Datagram framing: [RSV(2)=0x0000][FRAG(1)][ATYP(1)][DST.ADDR][DST.PORT][DATA]

var (
	ErrTruncatedDatagram = errors.New("truncated udp datagram")
	ErrFragmented        = errors.New("fragmented udp datagrams not supported")
)

// Datagram is one decoded SOCKS5 UDP relay frame.
type Datagram struct {
	Atyp    byte
	Host    string
	Port    uint16
	Payload []byte
}

// Address returns the frame's destination as host:port.
func (d *Datagram) Address() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(int(d.Port)))
}

// ParseDatagram decodes a client-to-relay frame. Only IPv4 and domain
// destinations are accepted; truncated headers are rejected, never sliced
// past their bounds. Payload aliases b.
func ParseDatagram(b []byte) (*Datagram, error) {
	if len(b) < 4 {
		return nil, ErrTruncatedDatagram
	}
	if b[2] != 0x00 {
		return nil, ErrFragmented
	}

	d := &Datagram{Atyp: b[3]}
	switch b[3] {
	case ATYPIPv4:
		if len(b) < 10 {
			return nil, ErrTruncatedDatagram
		}
		d.Host = net.IP(b[4:8]).String()
		d.Port = binary.BigEndian.Uint16(b[8:10])
		d.Payload = b[10:]
	case ATYPDomain:
		if len(b) < 5 {
			return nil, ErrTruncatedDatagram
		}
		n := int(b[4])
		if len(b) < 5+n+2 {
			return nil, ErrTruncatedDatagram
		}
		d.Host = string(b[5 : 5+n])
		d.Port = binary.BigEndian.Uint16(b[5+n : 5+n+2])
		d.Payload = b[5+n+2:]
	default:
		return nil, fmt.Errorf("udp datagram address type %#02x not supported", b[3])
	}
	return d, nil
}

// EncapsulateFrom builds a relay-to-client frame whose destination field
// carries src, the address the payload was received from.
func EncapsulateFrom(src *net.UDPAddr, payload []byte) []byte {
	var (
		atyp byte
		addr []byte
	)
	if ip4 := src.IP.To4(); ip4 != nil {
		atyp = ATYPIPv4
		addr = ip4
	} else {
		atyp = ATYPIPv6
		addr = src.IP.To16()
	}

	b := make([]byte, 0, 4+len(addr)+2+len(payload))
	b = append(b, 0x00, 0x00, 0x00, atyp)
	b = append(b, addr...)
	b = binary.BigEndian.AppendUint16(b, uint16(src.Port))
	b = append(b, payload...)
	return b
}
