package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/Chlna6666/UA4F/internal/rewrite"
	"github.com/Chlna6666/UA4F/internal/socks5"
)

const (
	// sniffReadSize is the buffer for the initial client read and each
	// assembly read.
	sniffReadSize = 4 * 1024

	// sniffAssemblyCap bounds how many initial bytes are buffered while
	// looking for the User-Agent header before giving up and forwarding.
	sniffAssemblyCap = 8 * 1024

	// assembleTimeout caps each follow-up read so a client that stalls
	// mid-header can't hold up forwarding; the buffer goes out as-is.
	assembleTimeout = 300 * time.Millisecond
)

func (s *Server) handleConnect(ctx context.Context, c *socks5.Conn, req *socks5.Request, log zerolog.Logger) error {
	address := req.Address()
	log = log.With().Str("target", address).Logger()

	target, err := s.dialTarget(ctx, c, address, log)
	if err != nil {
		return err
	}
	defer target.Close()

	if s.cache.Has(address) {
		log.Debug().Msg("destination cached as non-http, skipping sniff")
	} else if err := s.sniffAndForward(c.Conn, target, address); err != nil {
		return err
	}

	sent, received, err := relay(c.Conn, target)
	log.Debug().Int64("sent", sent).Int64("received", received).Msg("relay finished")
	if err != nil {
		return fmt.Errorf("relay: %w", err)
	}
	return nil
}

// dialTarget establishes the outbound connection and sends the SOCKS5
// reply. Connect failures map to HostUnreachable, timeouts to TtlExpired.
func (s *Server) dialTarget(ctx context.Context, c *socks5.Conn, address string, log zerolog.Logger) (net.Conn, error) {
	d := net.Dialer{Timeout: s.cfg.DialTimeout}

	target, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		rep := socks5.RepHostUnreachable
		if isTimeout(err) {
			rep = socks5.RepTTLExpired
		}
		_ = c.Reply(rep, nil)
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}

	if tc, ok := target.(*net.TCPConn); ok {
		if err := tc.SetNoDelay(true); err != nil {
			log.Warn().Err(err).Msg("failed to disable nagle on target")
		}
	}

	if err := c.Reply(socks5.RepSuccess, target.LocalAddr()); err != nil {
		_ = target.Close()
		return nil, fmt.Errorf("success reply: %w", err)
	}
	return target, nil
}

// sniffAndForward reads the connection's first bytes, classifies them, and
// forwards them, rewritten when they form an HTTP request whose User-Agent
// could be located. Relaying never depends on the rewrite succeeding.
func (s *Server) sniffAndForward(c, target net.Conn, address string) error {
	buf := make([]byte, sniffReadSize)
	n, err := c.Read(buf)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("initial read: %w", err)
	}
	data := buf[:n]

	if !rewrite.IsHTTPRequest(data) {
		s.cache.Put(address)
	} else {
		data = s.assemble(c, data)
		data = s.rewriter.Apply(data)
	}

	if _, err := target.Write(data); err != nil {
		return fmt.Errorf("forward initial bytes: %w", err)
	}
	return nil
}

// assemble keeps reading until the User-Agent value (or the end of the
// header block) has arrived, the assembly cap is reached, or the client
// stalls. It never fails; whatever was collected is returned.
func (s *Server) assemble(c net.Conn, data []byte) []byte {
	for !rewrite.HasCompleteValue(data) && !rewrite.EndOfHeaders(data) && len(data) < sniffAssemblyCap {
		_ = c.SetReadDeadline(time.Now().Add(assembleTimeout))
		chunk := make([]byte, sniffReadSize)
		n, err := c.Read(chunk)
		if n > 0 {
			data = append(data, chunk[:n]...)
		}
		if err != nil {
			break
		}
	}
	_ = c.SetReadDeadline(time.Time{})
	return data
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
