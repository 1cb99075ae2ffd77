package proxy

import (
	"errors"
	"io"
	"net"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"
)

type closeWriter interface {
	CloseWrite() error
}

// relay pumps bytes in both directions until each direction has stopped.
// A direction stops on EOF or a peer disconnect (reset, broken pipe), in
// which case the opposite stream's write side is half-closed and the other
// direction keeps flowing. Any other I/O error tears down both streams
// immediately. Byte counts are per direction and purely observational.
func relay(client, target net.Conn) (sent, received int64, err error) {
	var closeOnce sync.Once
	closeBoth := func() {
		closeOnce.Do(func() {
			_ = client.Close()
			_ = target.Close()
		})
	}
	defer closeBoth()

	g := errgroup.Group{}
	g.Go(func() error {
		n, err := copyOneWay(target, client)
		sent = n
		if err != nil {
			closeBoth()
		}
		return err
	})
	g.Go(func() error {
		n, err := copyOneWay(client, target)
		received = n
		if err != nil {
			closeBoth()
		}
		return err
	})

	err = g.Wait()
	return sent, received, err
}

// copyOneWay copies src to dst until EOF, then half-closes dst so the peer
// observes end-of-stream. Peer disconnects count as EOF, not errors.
func copyOneWay(dst, src net.Conn) (int64, error) {
	buf := bufPool.Get().(*[]byte)
	defer bufPool.Put(buf)

	n, err := io.CopyBuffer(dst, src, *buf)

	if cw, ok := dst.(closeWriter); ok {
		_ = cw.CloseWrite()
	}

	if err == nil || isDisconnect(err) {
		return n, nil
	}
	return n, err
}

func isDisconnect(err error) bool {
	return errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
