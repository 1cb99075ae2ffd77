//go:build !linux && !darwin && !freebsd && !openbsd

package conn

import "syscall"

func controlReuseAddr(network, address string, c syscall.RawConn) error {
	return nil
}
