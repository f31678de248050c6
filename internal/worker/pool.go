// Package worker implements cream's fixed-size pool of connection handlers:
// each worker dequeues one accepted connection, reads its request, applies
// it to the store, writes the response, and closes the connection.
//
// The pool is a fixed number of goroutines, each looping
// dequeue-handle-repeat until the queue is invalidated — N goroutines
// draining one shared queue until a stop signal.
package worker

import (
	"net"
	"sync"
	"time"

	"cream/internal/config"
	"cream/internal/logger"
	"cream/internal/metrics"
	"cream/internal/store"
	"cream/internal/wire"
	"cream/internal/workqueue"
)

// Pool is a fixed-size set of goroutines applying requests from a work
// queue to a store.
type Pool struct {
	n       int
	queue   *workqueue.Queue
	store   *store.Store
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics

	wg sync.WaitGroup
}

// New creates a Pool of n workers. Start must be called to begin consuming
// the queue.
func New(n int, q *workqueue.Queue, s *store.Store, cfg *config.Config, log *logger.Logger, m *metrics.Metrics) *Pool {
	return &Pool{
		n:       n,
		queue:   q,
		store:   s,
		cfg:     cfg,
		log:     log,
		metrics: m,
	}
}

// Start launches the pool's n worker goroutines. It returns immediately;
// workers run until the queue is invalidated.
func (p *Pool) Start() {
	p.wg.Add(p.n)
	for i := 0; i < p.n; i++ {
		go p.run(i)
	}
}

// Wait blocks until every worker goroutine has exited, which happens once
// the queue has been invalidated and drained. Call after invalidating the
// queue to block shutdown until in-flight connections finish.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// run is the body of a single worker goroutine: dequeue, handle, repeat,
// until the queue reports invalidation (ok=false).
func (p *Pool) run(id int) {
	defer p.wg.Done()
	for {
		item, ok := p.queue.Dequeue()
		if !ok {
			return
		}
		conn, ok := item.(net.Conn)
		if !ok {
			continue
		}
		p.handle(conn)
	}
}

// handle implements the per-connection state machine: awaitHeader →
// awaitKey → awaitValue? → produceResponse → closed. Any error along the
// way jumps straight to produceResponse with BAD_REQUEST.
func (p *Pool) handle(conn net.Conn) {
	start := time.Now()
	defer conn.Close()
	defer func() { p.metrics.RecordRequest(time.Since(start)) }()

	p.metrics.RequestsTotal.Add(1)

	header, err := wire.ReadRequestHeader(conn)
	if err != nil {
		p.log.Debugf("dispatch", "header read: %v", err)
		p.respond(conn, wire.BadRequest, nil)
		return
	}

	switch header.Code {
	case wire.Put:
		p.metrics.RequestsPut.Add(1)
		p.handlePut(conn, header)
	case wire.Get:
		p.metrics.RequestsGet.Add(1)
		p.handleGet(conn, header)
	case wire.Evict:
		p.metrics.RequestsEvict.Add(1)
		p.handleEvict(conn, header)
	case wire.Clear:
		p.metrics.RequestsClear.Add(1)
		p.handleClear(conn)
	default:
		p.log.Warnf("dispatch", "unsupported request code %d", header.Code)
		p.respond(conn, wire.Unsupported, nil)
	}
}

func (p *Pool) handlePut(conn net.Conn, header wire.RequestHeader) {
	if !p.validSize(header.KeySize, p.cfg.MinKeySize, p.cfg.MaxKeySize) ||
		!p.validSize(header.ValueSize, p.cfg.MinValueSize, p.cfg.MaxValueSize) {
		p.respond(conn, wire.BadRequest, nil)
		return
	}

	key, err := wire.ReadPayload(conn, header.KeySize)
	if err != nil {
		p.respond(conn, wire.BadRequest, nil)
		return
	}
	value, err := wire.ReadPayload(conn, header.ValueSize)
	if err != nil {
		p.respond(conn, wire.BadRequest, nil)
		return
	}

	wasFull := p.store.Size() >= p.store.Capacity()
	if err := p.store.Put(key, value, true); err != nil {
		// The worker always forces, so capacity exhaustion is never
		// client-visible; any other failure means the store was
		// invalidated mid-shutdown.
		p.log.Errorf("put", "store put: %v", err)
		p.respond(conn, wire.BadRequest, nil)
		return
	}
	if wasFull {
		p.metrics.ForcedEvictions.Add(1)
		p.log.Debug("put", "forced eviction on saturated store")
	}
	p.respond(conn, wire.OK, nil)
}

func (p *Pool) handleGet(conn net.Conn, header wire.RequestHeader) {
	if !p.validSize(header.KeySize, p.cfg.MinKeySize, p.cfg.MaxKeySize) {
		p.respond(conn, wire.BadRequest, nil)
		return
	}

	key, err := wire.ReadPayload(conn, header.KeySize)
	if err != nil {
		p.respond(conn, wire.BadRequest, nil)
		return
	}

	value, ok := p.store.Get(key)
	if !ok {
		p.respond(conn, wire.NotFound, nil)
		return
	}
	p.respond(conn, wire.OK, value)
}

func (p *Pool) handleEvict(conn net.Conn, header wire.RequestHeader) {
	if !p.validSize(header.KeySize, p.cfg.MinKeySize, p.cfg.MaxKeySize) {
		p.respond(conn, wire.BadRequest, nil)
		return
	}

	key, err := wire.ReadPayload(conn, header.KeySize)
	if err != nil {
		p.respond(conn, wire.BadRequest, nil)
		return
	}

	if _, ok := p.store.Delete(key); !ok {
		p.respond(conn, wire.NotFound, nil)
		return
	}
	p.respond(conn, wire.OK, nil)
}

func (p *Pool) handleClear(conn net.Conn) {
	if err := p.store.Clear(); err != nil {
		p.log.Errorf("clear", "store clear: %v", err)
		p.respond(conn, wire.BadRequest, nil)
		return
	}
	p.respond(conn, wire.OK, nil)
}

// validSize reports whether size falls within [min, max] inclusive.
func (p *Pool) validSize(size uint32, min, max int) bool {
	return size >= uint32(min) && size <= uint32(max)
}

// respond writes the response header, followed by value if non-empty, and
// records the outcome in metrics. Write errors are logged, not returned:
// the connection is about to be closed by the caller regardless.
func (p *Pool) respond(conn net.Conn, code wire.ResponseCode, value []byte) {
	switch code {
	case wire.OK:
		p.metrics.ResponsesOK.Add(1)
	case wire.NotFound:
		p.metrics.ResponsesNotFound.Add(1)
	case wire.BadRequest:
		p.metrics.ResponsesBadRequest.Add(1)
	case wire.Unsupported:
		p.metrics.ResponsesUnsupported.Add(1)
	}

	header := wire.ResponseHeader{Code: code, ValueSize: uint32(len(value))}
	if err := wire.WriteResponseHeader(conn, header); err != nil {
		p.log.Debugf("respond", "write header: %v", err)
		return
	}
	if len(value) == 0 {
		return
	}
	if _, err := conn.Write(value); err != nil {
		p.log.Debugf("respond", "write value: %v", err)
	}
}

