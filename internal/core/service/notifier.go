package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ordenes/ordersys/internal/core/domain"
	"github.com/ordenes/ordersys/internal/port"
)

// AlertSubscription is the removal token returned by Notifier.On.
type AlertSubscription struct {
	once   sync.Once
	cancel func()
}

func (s *AlertSubscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

type alertListener struct {
	id uint64
	fn func(domain.Alert)
}

// Notifier is the alert bus. Emitting synthesizes the full alert record,
// appends it to the persisted log (most recent first) and then invokes the
// subscribers registered for that kind. Subscriptions are keyed by kind, not
// a single combined stream.
type Notifier struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[domain.AlertKind][]alertListener
	log       port.AlertLogRepository
	logger    *zap.Logger
}

func NewNotifier(log port.AlertLogRepository, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		listeners: make(map[domain.AlertKind][]alertListener),
		log:       log,
		logger:    logger,
	}
}

// Emit creates the alert (id, timestamp, read=false), persists it and
// delivers it to subscribers of kind. Delivery happens only after the log
// append succeeded.
func (n *Notifier) Emit(ctx context.Context, kind domain.AlertKind, message string, productID uuid.UUID) (domain.Alert, error) {
	alert := domain.NewAlert(kind, message, productID)

	if err := n.log.Append(ctx, alert); err != nil {
		return domain.Alert{}, fmt.Errorf("append alert log: %w", err)
	}

	n.mu.Lock()
	current := make([]alertListener, len(n.listeners[kind]))
	copy(current, n.listeners[kind])
	n.mu.Unlock()

	for _, l := range current {
		n.dispatch(l, alert)
	}

	return alert, nil
}

func (n *Notifier) dispatch(l alertListener, alert domain.Alert) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("alert listener panicked",
				zap.String("kind", string(alert.Kind)),
				zap.Any("panic", r),
			)
		}
	}()
	l.fn(alert)
}

// On registers a callback for one alert kind and returns its removal token.
func (n *Notifier) On(kind domain.AlertKind, fn func(domain.Alert)) *AlertSubscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.listeners[kind] = append(n.listeners[kind], alertListener{id: id, fn: fn})

	return &AlertSubscription{cancel: func() { n.off(kind, id) }}
}

// Off removes a previously registered subscription.
func (n *Notifier) Off(sub *AlertSubscription) {
	sub.Unsubscribe()
}

func (n *Notifier) off(kind domain.AlertKind, id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	list := n.listeners[kind]
	for i, l := range list {
		if l.id == id {
			n.listeners[kind] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// MarkAsRead flips the read flag. Unknown ids are a no-op.
func (n *Notifier) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return n.log.MarkRead(ctx, id)
}

// GetHistory returns the persisted log, most recent first.
func (n *Notifier) GetHistory(ctx context.Context) ([]domain.Alert, error) {
	return n.log.GetAll(ctx)
}
