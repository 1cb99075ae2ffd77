package proxy

import (
	"context"
	"net"

	"github.com/rs/zerolog"

	"github.com/Chlna6666/UA4F/internal/destcache"
	"github.com/Chlna6666/UA4F/internal/rewrite"
	"github.com/Chlna6666/UA4F/internal/socks5"
)

type Server struct {
	cfg      Config
	log      zerolog.Logger
	rewriter *rewrite.Rewriter
	cache    *destcache.Cache
	gate     *Gate
}

func NewServer(cfg Config, rw *rewrite.Rewriter, logger zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		log:      logger,
		rewriter: rw,
		cache:    destcache.New(cfg.CacheTTL, cfg.CacheSize),
		gate:     NewGate(cfg.MaxConnections),
	}
}

// Serve accepts client connections until ln is closed or ctx is canceled.
// A gate slot is held for the full lifetime of each connection; the accept
// loop blocks while the gate is full.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	for {
		if err := s.gate.Acquire(ctx); err != nil {
			return err
		}

		c, err := ln.Accept()
		if err != nil {
			s.gate.Release()
			return err
		}

		go func() {
			defer s.gate.Release()
			defer c.Close()
			s.handleConn(ctx, c)
		}()
	}
}

// handleConn drives one client connection through authenticate, command
// routing, and the command's relay loop. Failures here are per-connection
// only; they are logged and the connection is closed.
func (s *Server) handleConn(ctx context.Context, raw net.Conn) {
	log := s.log.With().Str("client", raw.RemoteAddr().String()).Logger()

	c := socks5.NewConn(raw)
	if err := c.Authenticate(); err != nil {
		log.Debug().Err(err).Msg("authentication failed")
		return
	}

	req, err := c.Wait()
	if err != nil {
		log.Debug().Err(err).Msg("command wait failed")
		return
	}

	switch req.Cmd {
	case socks5.CmdConnect:
		if err := s.handleConnect(ctx, c, req, log); err != nil {
			log.Warn().Err(err).Msg("connect failed")
		}
	case socks5.CmdUDP:
		if err := s.handleAssociate(c, req, log); err != nil {
			log.Warn().Err(err).Msg("associate failed")
		}
	default:
		// BIND is not supported.
		log.Warn().Uint8("cmd", req.Cmd).Msg("unsupported command")
		_ = c.Reply(socks5.RepCommandNotSupported, nil)
	}
}
