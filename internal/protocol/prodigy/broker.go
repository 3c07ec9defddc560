package prodigy

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/specs-group/kreiosd/internal/logger"
	"github.com/specs-group/kreiosd/pkg/metrics"
)

// maxDiscardedReplies bounds how many mismatched-ID replies an Exchange
// will discard while waiting for its own reply, guarding against a
// runaway loop if the server ever gets wedged.
const maxDiscardedReplies = 3

// Broker serializes request/reply exchanges over a single Transport. At
// most one request is ever outstanding; Exchange holds a mutex for its
// entire duration so concurrent callers queue rather than interleave.
type Broker struct {
	mu        sync.Mutex
	transport *Transport
	nextID    atomic.Uint32
	broken    atomic.Bool
	metrics   metrics.ProdigyMetrics
}

// NewBroker wraps a Transport. The broker does not own the connection
// lifecycle; call Reconnect to (re)establish it.
func NewBroker(t *Transport) *Broker {
	return &Broker{transport: t}
}

// SetMetrics installs a metrics sink. Passing nil disables metrics
// collection; safe to call at any time, including while the broker is
// in use, since the field is read once at the top of each Exchange.
func (b *Broker) SetMetrics(m metrics.ProdigyMetrics) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.metrics = m
}

// Broken reports whether a prior exchange failed and no Reconnect has
// happened since.
func (b *Broker) Broken() bool {
	return b.broken.Load()
}

// Reconnect closes and re-opens the underlying transport and clears the
// broken flag. It is the only way the connection is ever retried; the
// broker never reconnects on its own.
func (b *Broker) Reconnect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_ = b.transport.Close()
	err := b.transport.Connect(ctx)
	if err != nil {
		b.broken.Store(true)
	} else {
		b.broken.Store(false)
	}
	if b.metrics != nil {
		b.metrics.RecordReconnectAttempt(err == nil)
		b.metrics.SetConnected(err == nil)
	}
	return err
}

func (b *Broker) allocateID() uint16 {
	return uint16(b.nextID.Add(1))
}

// Exchange sends one request and waits for its matching reply. Replies
// carrying a mismatched ID (stale responses to a previously timed-out
// request) are discarded, up to maxDiscardedReplies, and the broker keeps
// reading for the reply it actually wants.
func (b *Broker) Exchange(ctx context.Context, cmd string, args ...Arg) (*Reply, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m := b.metrics
	if m != nil {
		m.RecordExchangeStart(cmd)
		defer m.RecordExchangeEnd(cmd)
	}
	start := time.Now()
	reply, err := b.exchangeLocked(ctx, cmd, args...)
	if m != nil {
		m.RecordExchange(cmd, time.Since(start), exchangeErrorKind(err))
	}
	return reply, err
}

func exchangeErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Kind.String()
	}
	return "unknown"
}

func (b *Broker) exchangeLocked(ctx context.Context, cmd string, args ...Arg) (*Reply, error) {
	if b.broken.Load() {
		return nil, newError(KindConnectionUnavailable, "connection broken, Reconnect required")
	}

	id := b.allocateID()
	line := FormatRequest(id, cmd, args...)

	if b.metrics != nil {
		b.metrics.RecordBytesTransferred("sent", len(line))
	}

	if err := b.transport.WriteLine(line); err != nil {
		b.broken.Store(true)
		return nil, err
	}

	for discarded := 0; ; discarded++ {
		raw, err := b.transport.ReadLine()
		if err != nil {
			b.broken.Store(true)
			return nil, err
		}
		if b.metrics != nil {
			b.metrics.RecordBytesTransferred("received", len(raw))
		}

		reply, perr := ParseReply(raw)
		if perr != nil {
			b.broken.Store(true)
			return nil, perr
		}

		if reply.ID != id {
			if discarded >= maxDiscardedReplies {
				b.broken.Store(true)
				return nil, newError(KindProtocolMismatchedID, "too many mismatched replies")
			}
			logger.Warn("prodigy: discarding stale reply", "expected_id", id, "got_id", reply.ID)
			continue
		}

		if !reply.OK {
			return nil, newServerError(reply.Code, reply.Message)
		}
		return reply, nil
	}
}
