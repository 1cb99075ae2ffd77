package conn

import (
	"context"
	"fmt"
	"net"
)

// ListenTCP listens on the given network/address with SO_REUSEADDR set
// where the platform supports it, so a restarted proxy can rebind while old
// sockets drain in TIME_WAIT.
func ListenTCP(ctx context.Context, network, addr string) (net.Listener, error) {
	lc := net.ListenConfig{Control: controlReuseAddr}

	ln, err := lc.Listen(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s %s: %w", network, addr, err)
	}
	return ln, nil
}
