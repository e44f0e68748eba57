package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"orderuz/internal/models"
	"orderuz/internal/pubsub"
	"orderuz/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Auto-advancement thresholds, measured from order creation.
const (
	PreparingAfter  = 10 * time.Second
	DeliveringAfter = 20 * time.Second
	CompletedAfter  = 30 * time.Second
)

const (
	publishTimeout = 5 * time.Second
	eventQueueSize = 256
)

// CreateOrderRequest carries the data needed to place an order.
type CreateOrderRequest struct {
	RestaurantID    string
	RestaurantName  string
	Lines           []models.CartLine
	DeliveryAddress string
	DeliveryPhone   string
}

// OrderOption configures an OrderService.
type OrderOption func(*OrderService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

// WithTrackerInterval sets how often active orders are polled.
// Zero disables background polling.
func WithTrackerInterval(d time.Duration) OrderOption {
	return func(s *OrderService) { s.interval = d }
}

// OrderService handles the order lifecycle: creation from a cart snapshot,
// tracking stages, timed status advancement, reorders and history.
type OrderService struct {
	repo      repositories.OrderRepository
	publisher EventPublisher
	hub       *pubsub.Hub[OrderChange]
	tracker   *Tracker
	now       func() time.Time
	interval  time.Duration
	mu        sync.Mutex

	// Broker events are queued under mu, so they leave in commit order.
	events  chan models.OrderEvent
	drained chan struct{}
	closed  bool
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(repo repositories.OrderRepository, publisher EventPublisher, opts ...OrderOption) *OrderService {
	s := &OrderService{
		repo:      repo,
		publisher: publisher,
		hub:       pubsub.NewHub[OrderChange](),
		now:       time.Now,
		interval:  time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher != nil {
		s.events = make(chan models.OrderEvent, eventQueueSize)
		s.drained = make(chan struct{})
		go s.dispatch()
	}
	s.tracker = NewTracker(s.interval, s.now, func(orderID string, now time.Time) bool {
		status, err := s.Advance(orderID, now)
		if err != nil {
			log.Warn().Err(err).Str("order_id", orderID).Msg("order advancement failed")
			return false
		}
		return status == "" || status.Terminal()
	})
	return s
}

// Subscribe registers fn for every committed order mutation. fn runs while
// the service holds its write lock and must not call back into it.
func (s *OrderService) Subscribe(fn func(OrderChange)) func() {
	return s.hub.Subscribe(fn)
}

// Tracker exposes the per-order polling tasks.
func (s *OrderService) Tracker() *Tracker {
	return s.tracker
}

// CreateOrder snapshots req.Lines into a new pending order and starts its timer.
func (s *OrderService) CreateOrder(accountID string, req CreateOrderRequest) (*models.Order, error) {
	now := s.now()

	lines := make([]models.CartLine, len(req.Lines))
	var total int64
	for i, l := range req.Lines {
		lines[i] = l
		total += l.Subtotal()
	}

	order := models.Order{
		ID:              "ORD-" + uuid.New().String(),
		AccountID:       accountID,
		RestaurantID:    req.RestaurantID,
		RestaurantName:  req.RestaurantName,
		Lines:           lines,
		TotalAmount:     total,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryPhone:   req.DeliveryPhone,
		EstimatedTime:   models.DefaultEstimatedTime,
		Status:          models.StatusPending,
		CreatedAt:       now,
		TrackingStages:  initialStages(now),
	}

	s.mu.Lock()
	if err := s.repo.Create(&order); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}
	s.hub.Publish(OrderChange{Type: models.EventOrderCreated, AccountID: accountID, Order: order.Clone()})
	s.enqueue(models.EventOrderCreated, order)
	s.mu.Unlock()

	s.tracker.Start(order.ID)
	log.Info().Str("order_id", order.ID).Str("account_id", accountID).Int64("total", total).Msg("order created")

	return &order, nil
}

func initialStages(now time.Time) []models.TrackingStage {
	stages := make([]models.TrackingStage, len(models.TrackingStageNames))
	for i, name := range models.TrackingStageNames {
		stages[i] = models.TrackingStage{Name: name}
	}
	ts := now
	stages[0].Completed = true
	stages[0].Timestamp = &ts
	return stages
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.repo.GetByID(id)
}

// GetOrders returns every order owned by accountID.
func (s *OrderService) GetOrders(accountID string) ([]models.Order, error) {
	return s.repo.GetByAccount(accountID)
}

// GetActiveOrders returns the account's pending, preparing and delivering orders.
func (s *OrderService) GetActiveOrders(accountID string) ([]models.Order, error) {
	return s.filter(accountID, models.OrderStatus.Active)
}

// GetOrderHistory returns the account's completed and cancelled orders.
func (s *OrderService) GetOrderHistory(accountID string) ([]models.Order, error) {
	return s.filter(accountID, models.OrderStatus.Terminal)
}

func (s *OrderService) filter(accountID string, keep func(models.OrderStatus) bool) ([]models.Order, error) {
	orders, err := s.repo.GetByAccount(accountID)
	if err != nil {
		return nil, err
	}
	out := []models.Order{}
	for _, o := range orders {
		if keep(o.Status) {
			out = append(out, o)
		}
	}
	return out, nil
}

// UpdateOrderStatus overwrites the order's status. Ordering between
// non-terminal statuses is the caller's concern; unknown and terminal
// orders are left untouched.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	order, err := s.update(id, models.EventOrderStatusChanged, func(o *models.Order) bool {
		if o.Status.Terminal() || o.Status == status {
			return false
		}
		o.Status = status
		if status.Terminal() {
			now := s.now()
			o.CompletedAt = &now
		}
		return true
	})
	if err != nil || order == nil {
		return err
	}

	if status.Terminal() {
		s.tracker.Stop(id)
	}
	return nil
}

// UpdateTrackingStage completes every stage up to and including stageIndex,
// stamping the ones that were not complete yet.
func (s *OrderService) UpdateTrackingStage(id string, stageIndex int) error {
	if stageIndex < 0 {
		return nil
	}
	_, err := s.update(id, models.EventOrderTrackingUpdated, func(o *models.Order) bool {
		if o.Status.Terminal() {
			return false
		}
		return completeStages(o, stageIndex, s.now())
	})
	return err
}

func completeStages(o *models.Order, stageIndex int, now time.Time) bool {
	if stageIndex >= len(o.TrackingStages) {
		stageIndex = len(o.TrackingStages) - 1
	}
	changed := false
	for i := 0; i <= stageIndex; i++ {
		if o.TrackingStages[i].Completed {
			continue
		}
		ts := now
		o.TrackingStages[i].Completed = true
		o.TrackingStages[i].Timestamp = &ts
		changed = true
	}
	return changed
}

// CancelOrder moves a non-terminal order to cancelled. It reports false for
// unknown or already terminal orders.
func (s *OrderService) CancelOrder(id string) (bool, error) {
	order, err := s.update(id, models.EventOrderStatusChanged, func(o *models.Order) bool {
		if o.Status.Terminal() {
			return false
		}
		now := s.now()
		o.Status = models.StatusCancelled
		o.CompletedAt = &now
		return true
	})
	if err != nil || order == nil {
		return false, err
	}

	s.tracker.Stop(id)
	log.Info().Str("order_id", id).Msg("order cancelled")
	return true, nil
}

// Advance applies the timed transitions due at now and returns the order's
// resulting status, or "" if the order is unknown. Every threshold already
// crossed is applied once, so a late tick catches up.
func (s *OrderService) Advance(id string, now time.Time) (models.OrderStatus, error) {
	var status models.OrderStatus
	order, err := s.update(id, models.EventOrderStatusChanged, func(o *models.Order) bool {
		status = o.Status
		if o.Status.Terminal() {
			return false
		}
		elapsed := now.Sub(o.CreatedAt)
		changed := false
		for {
			next, stage, ok := nextTransition(o.Status, elapsed)
			if !ok {
				break
			}
			o.Status = next
			if stage >= 0 {
				completeStages(o, stage, now)
			}
			if next == models.StatusCompleted {
				ts := now
				o.CompletedAt = &ts
			}
			changed = true
		}
		status = o.Status
		return changed
	})
	if err != nil {
		return "", err
	}
	if order != nil {
		log.Debug().Str("order_id", id).Str("status", string(order.Status)).Msg("order advanced")
		if order.Status.Terminal() {
			s.tracker.Stop(id)
		}
	}
	return status, nil
}

func nextTransition(status models.OrderStatus, elapsed time.Duration) (models.OrderStatus, int, bool) {
	switch {
	case status == models.StatusPending && elapsed >= PreparingAfter:
		return models.StatusPreparing, 1, true
	case status == models.StatusPreparing && elapsed >= DeliveringAfter:
		return models.StatusDelivering, 2, true
	case status == models.StatusDelivering && elapsed >= CompletedAfter:
		return models.StatusCompleted, -1, true
	}
	return status, 0, false
}

// ReorderOrder places a fresh copy of an order owned by accountID. It
// returns nil when the order does not exist or belongs to someone else.
func (s *OrderService) ReorderOrder(accountID, id string) (*models.Order, error) {
	original, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if original.AccountID != accountID {
		return nil, nil
	}

	return s.CreateOrder(accountID, CreateOrderRequest{
		RestaurantID:    original.RestaurantID,
		RestaurantName:  original.RestaurantName,
		Lines:           original.Lines,
		DeliveryAddress: original.DeliveryAddress,
		DeliveryPhone:   original.DeliveryPhone,
	})
}

// ClearOrderHistory removes the account's completed and cancelled orders.
func (s *OrderService) ClearOrderHistory(accountID string) (int, error) {
	s.mu.Lock()
	removed, err := s.repo.DeleteTerminal(accountID)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	if removed > 0 {
		s.hub.Publish(OrderChange{Type: models.EventOrderHistoryClear, AccountID: accountID, Removed: removed})
		s.enqueue(models.EventOrderHistoryClear, models.Order{AccountID: accountID})
	}
	s.mu.Unlock()
	return removed, nil
}

// ResumeActive restarts polling for every persisted active order.
func (s *OrderService) ResumeActive() error {
	orders, err := s.repo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	for _, o := range orders {
		if o.Status.Active() {
			s.tracker.Start(o.ID)
		}
	}
	return nil
}

// Shutdown stops every polling task and waits for queued broker events
// to be sent.
func (s *OrderService) Shutdown() {
	s.tracker.StopAll()

	s.mu.Lock()
	if s.closed || s.events == nil {
		s.closed = true
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.events)
	s.mu.Unlock()
	<-s.drained
}

// update applies fn to the stored order under the write lock. When fn
// reports a change the order is saved, subscribers are notified and the
// committed copy is returned; otherwise the result is nil.
func (s *OrderService) update(id, changeType string, fn func(*models.Order) bool) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !fn(order) {
		return nil, nil
	}
	if err := s.repo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}
	s.hub.Publish(OrderChange{Type: changeType, AccountID: order.AccountID, Order: order.Clone()})
	// Stage-only changes stay in process.
	if changeType != models.EventOrderTrackingUpdated {
		s.enqueue(changeType, *order)
	}
	return order, nil
}

// enqueue hands an event to the broker dispatcher. Callers hold s.mu.
func (s *OrderService) enqueue(eventType string, order models.Order) {
	if s.events == nil || s.closed {
		return
	}
	s.events <- models.OrderEvent{
		Type:      eventType,
		OrderID:   order.ID,
		AccountID: order.AccountID,
		Status:    order.Status,
		Total:     order.TotalAmount,
		Timestamp: s.now(),
	}
}

// dispatch sends queued events one at a time until the queue is closed.
func (s *OrderService) dispatch() {
	defer close(s.drained)
	for event := range s.events {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
			log.Warn().Err(err).Str("key", event.Key()).Str("event", event.Type).Msg("failed to publish order event")
		}
		cancel()
	}
}
