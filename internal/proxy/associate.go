package proxy

import (
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog"

	"github.com/Chlna6666/UA4F/internal/socks5"
)

const udpBufferSize = 64 * 1024

// handleAssociate binds an ephemeral UDP socket, reports it to the client,
// and pumps datagrams between the client and its targets. The association
// lives until the TCP control connection closes or the socket errors.
func (s *Server) handleAssociate(c *socks5.Conn, req *socks5.Request, log zerolog.Logger) error {
	if req.Atyp == socks5.ATYPDomain {
		_ = c.Reply(socks5.RepCommandNotSupported, nil)
		return errors.New("associate with domain client binding not supported")
	}

	laddr := &net.UDPAddr{}
	if ta, ok := c.LocalAddr().(*net.TCPAddr); ok {
		laddr.IP = ta.IP
	}
	pc, err := net.ListenUDP("udp", laddr)
	if err != nil {
		_ = c.Reply(socks5.RepHostUnreachable, nil)
		return fmt.Errorf("udp listen: %w", err)
	}
	defer pc.Close()

	if err := c.Reply(socks5.RepSuccess, pc.LocalAddr()); err != nil {
		return fmt.Errorf("success reply: %w", err)
	}

	log = log.With().Str("bound", pc.LocalAddr().String()).Logger()
	log.Debug().Msg("udp association established")

	// The association's lifetime follows the control connection: when the
	// client closes or resets it, unblock the pump by closing the socket.
	go func() {
		b := make([]byte, 1)
		for {
			if _, err := c.Read(b); err != nil {
				break
			}
		}
		_ = pc.Close()
	}()

	if err := s.pumpUDP(pc, log); err != nil {
		return fmt.Errorf("udp pump: %w", err)
	}
	return nil
}

// pumpUDP runs the datagram loop on a single socket. The first sender is
// taken to be the client; its datagrams are decapsulated and forwarded,
// and datagrams from anyone else are encapsulated with their source
// address and sent back to the client. Malformed frames are dropped.
func (s *Server) pumpUDP(pc *net.UDPConn, log zerolog.Logger) error {
	var clientAddr *net.UDPAddr
	buf := make([]byte, udpBufferSize)

	for {
		n, src, err := pc.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		if clientAddr == nil {
			clientAddr = src
		}

		if src.IP.Equal(clientAddr.IP) && src.Port == clientAddr.Port {
			d, err := socks5.ParseDatagram(buf[:n])
			if err != nil {
				log.Debug().Err(err).Msg("dropping client datagram")
				continue
			}
			taddr, err := resolveTarget(d)
			if err != nil {
				log.Debug().Err(err).Msg("dropping unresolvable datagram")
				continue
			}
			if _, err := pc.WriteToUDP(d.Payload, taddr); err != nil {
				log.Debug().Err(err).Str("target", taddr.String()).Msg("udp forward failed")
			}
		} else {
			frame := socks5.EncapsulateFrom(src, buf[:n])
			if _, err := pc.WriteToUDP(frame, clientAddr); err != nil {
				log.Debug().Err(err).Msg("udp reply to client failed")
			}
		}
	}
}

// resolveTarget turns a decoded datagram destination into a UDP address.
// Domain destinations resolve to IPv4 only.
func resolveTarget(d *socks5.Datagram) (*net.UDPAddr, error) {
	if d.Atyp == socks5.ATYPIPv4 {
		ip := net.ParseIP(d.Host)
		if ip == nil {
			return nil, fmt.Errorf("bad ipv4 address %q", d.Host)
		}
		return &net.UDPAddr{IP: ip, Port: int(d.Port)}, nil
	}

	addr, err := net.ResolveIPAddr("ip4", d.Host)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", d.Host, err)
	}
	return &net.UDPAddr{IP: addr.IP, Port: int(d.Port)}, nil
}
