// Package cream is the composition root: it wires together the store, the
// work queue, the worker pool, and a TCP acceptor into a runnable server.
package cream

import (
	"errors"
	"net"

	"golang.org/x/net/netutil"

	"cream/internal/config"
	"cream/internal/logger"
	"cream/internal/metrics"
	"cream/internal/store"
	"cream/internal/worker"
	"cream/internal/workqueue"
)

// Server binds a TCP listener, accepts connections, and hands each one to
// the work queue for a worker to process.
type Server struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics

	store *store.Store
	queue *workqueue.Queue
	pool  *worker.Pool

	listener net.Listener
}

// New builds a Server from cfg. It does not bind a listener or start
// workers; call ListenAndServe for that.
func New(cfg *config.Config, m *metrics.Metrics) (*Server, error) {
	log := logger.New("CREAM", cfg.LogLevel)

	s, err := store.NewDefault(cfg.MaxEntries, func(_, _ []byte) {})
	if err != nil {
		return nil, err
	}

	q := workqueue.New()
	pool := worker.New(cfg.NumWorkers, q, s, cfg, logger.New("WORKER", cfg.LogLevel), m)

	return &Server{
		cfg:     cfg,
		log:     log,
		metrics: m,
		store:   s,
		queue:   q,
		pool:    pool,
	}, nil
}

// ListenAndServe binds cfg.Port, starts the worker pool, and runs the
// accept loop until Close is called. It blocks until the listener is
// closed, returning the error that caused the loop to stop (nil on a
// clean Close).
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		return err
	}

	// Bound the number of accepted connections open at once (queued or
	// being handled, until a worker or shutdown closes them) so an acceptor
	// that outpaces the worker pool cannot grow file descriptors without
	// limit.
	limited := netutil.LimitListener(ln, 2*s.cfg.NumWorkers)
	s.listener = limited

	s.pool.Start()
	s.log.Infof("listen", "listening on :%s with %d workers, capacity %d", s.cfg.Port, s.cfg.NumWorkers, s.cfg.MaxEntries)

	for {
		conn, err := limited.Accept()
		if err != nil {
			if isClosedError(err) {
				return nil
			}
			// Transient accept failure: log and keep accepting.
			s.log.Warnf("accept", "accept error: %v", err)
			continue
		}
		if err := s.queue.Enqueue(conn); err != nil {
			s.log.Warnf("accept", "enqueue after shutdown: %v", err)
			conn.Close()
		}
	}
}

// Close stops accepting new connections, invalidates the work queue
// (discarding any connections still waiting to be handled) and the store,
// and waits for in-flight workers to finish.
func (s *Server) Close() error {
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.queue.Invalidate(func(item any) {
		if conn, ok := item.(net.Conn); ok {
			conn.Close()
		}
	})
	s.pool.Wait()
	if invErr := s.store.Invalidate(); invErr != nil {
		s.log.Warnf("shutdown", "store invalidate: %v", invErr)
	}
	return err
}

// Metrics returns a snapshot of the server's runtime counters.
func (s *Server) Metrics() metrics.Snapshot {
	return s.metrics.Snapshot()
}

func isClosedError(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
