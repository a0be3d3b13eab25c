// Package storefront owns the shopper's cart: it keeps the in-memory list,
// persists it to the local key or the signed-in user's record, and merges
// the two when the shopper signs in.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"gofalre.io/storefront/auth"
	"gofalre.io/storefront/checkout"
	"gofalre.io/storefront/local"
	"gofalre.io/storefront/models"
	"gofalre.io/storefront/models/enum"
	"gofalre.io/storefront/pricing"
	"gofalre.io/storefront/user"
)

var (
	ErrInvalidItem = errors.New("storefront: invalid cart item")
	// ErrPersist reports that the authoritative store rejected a write. The
	// in-memory cart keeps the change.
	ErrPersist = errors.New("storefront: cart not persisted")
	ErrMerge   = errors.New("storefront: cart merge failed")
)

type Service interface {
	// Load reads the cart for the current auth state into memory and
	// returns a copy. Storage failures degrade to a smaller cart, never an error.
	Load(ctx context.Context) models.Cart
	// Save writes the in-memory cart to the store owning it.
	Save(ctx context.Context) error

	AddItem(ctx context.Context, item models.CartItem, quantity int) error
	RemoveItem(ctx context.Context, id string) error
	SetQuantity(ctx context.Context, id string, quantity int) error
	Clear(ctx context.Context) error

	// HandleAuthChange applies one auth notification. Only the
	// anonymous to signed-in transition merges carts.
	HandleAuthChange(ctx context.Context, state models.AuthState) error

	Items() models.Cart
	Totals() pricing.Totals
	AuthState() models.AuthState
	Backend() enum.CartBackend

	// CheckoutLink builds the chat link carrying the order message.
	CheckoutLink(ctx context.Context) (string, error)

	// Start subscribes to the auth signal; Close undoes it.
	Start(ctx context.Context) error
	Close()
}

type service struct {
	mu     sync.Mutex
	cart   models.Cart
	state  models.AuthState
	loaded bool

	local  local.Store
	remote user.Repository

	notifier   Notifier
	formatter  checkout.PriceFormatter
	chatNumber string

	eventManager *EventManager
	workerPool   *WorkerPool

	logger *zap.Logger
}

// Option customises a Service.
type Option func(*service)

// WithNotifier replaces the log-backed notifier.
func WithNotifier(n Notifier) Option {
	return func(s *service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithFormatter replaces checkout.DefaultFormatter.
func WithFormatter(f checkout.PriceFormatter) Option {
	return func(s *service) {
		if f != nil {
			s.formatter = f
		}
	}
}

// WithChatNumber sets the phone number checkout messages are sent to.
func WithChatNumber(number string) Option {
	return func(s *service) {
		s.chatNumber = number
	}
}

// WithAuthState sets the identity the cart starts with.
func WithAuthState(state models.AuthState) Option {
	return func(s *service) {
		s.state = state
	}
}

// NewService builds the cart controller. signal may be nil when auth changes
// are fed through HandleAuthChange directly.
func NewService(localStore local.Store, remote user.Repository, signal auth.Signal, logger *zap.Logger, opts ...Option) (Service, error) {
	if localStore == nil || remote == nil {
		return nil, errors.New("storefront: local and remote stores are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &service{
		cart:   models.NewCart(),
		local:  localStore,
		remote: remote,
		logger: logger,
	}
	s.notifier = NewLogNotifier(logger)
	s.formatter = checkout.DefaultFormatter()
	for _, opt := range opts {
		opt(s)
	}

	if signal != nil {
		s.eventManager = NewEventManager(signal, logger)
	}

	return s, nil
}

func (s *service) Start(ctx context.Context) error {
	if s.eventManager == nil {
		return nil
	}

	s.mu.Lock()
	if s.workerPool != nil {
		s.mu.Unlock()
		return nil
	}
	// one worker keeps auth transitions in arrival order
	s.workerPool = NewWorkerPool(ctx, 1, s, s.logger)
	s.mu.Unlock()

	if err := s.eventManager.SubscribeToAuthChanges(s.workerPool); err != nil {
		s.logger.Error("Failed to subscribe to auth changes", zap.Error(err))
		return err
	}
	return nil
}

func (s *service) Close() {
	if s.eventManager != nil {
		s.eventManager.Unsubscribe()
	}

	s.mu.Lock()
	wp := s.workerPool
	s.workerPool = nil
	s.mu.Unlock()

	if wp != nil {
		wp.Shutdown()
	}
}

func (s *service) Load(ctx context.Context) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = s.load(ctx, s.state)
	s.loaded = true
	return s.cart.Clone()
}

// load reads the cart owned by state. A failed remote read falls back to
// the local key.
func (s *service) load(ctx context.Context, state models.AuthState) models.Cart {
	if state.Authenticated() {
		cart, err := s.remote.GetCart(ctx, state.UserID)
		if err == nil {
			return cart
		}
		s.logger.Warn("Failed to load remote cart, using local cart",
			zap.String("user_id", state.UserID), zap.Error(err))
	}

	cart, err := s.local.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to load local cart", zap.Error(err))
		return models.NewCart()
	}
	return cart
}

func (s *service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx)
}

// save writes the whole cart to the store owning it. A failed remote write
// is also cached under the local key.
func (s *service) save(ctx context.Context) error {
	if s.state.Authenticated() {
		err := s.remote.UpdateCart(ctx, s.state.UserID, s.cart)
		if err == nil {
			return nil
		}
		s.logger.Error("Failed to save remote cart, caching locally",
			zap.String("user_id", s.state.UserID), zap.Error(err))
		if lerr := s.local.Save(ctx, s.cart); lerr != nil {
			s.logger.Error("Failed to cache cart locally", zap.Error(lerr))
		}
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if err := s.local.Save(ctx, s.cart); err != nil {
		s.logger.Error("Failed to save local cart", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (s *service) AddItem(ctx context.Context, item models.CartItem, quantity int) error {
	if item.ID == "" || item.Price < 0 {
		s.notifier.Notify(ctx, enum.NoticeError, "Error adding item to cart")
		return fmt.Errorf("%w: id=%q price=%v", ErrInvalidItem, item.ID, item.Price)
	}
	if quantity <= 0 {
		return nil
	}

	s.mu.Lock()
	if idx := s.cart.IndexOf(item.ID); idx >= 0 {
		s.cart[idx].Quantity += quantity
	} else {
		item.Quantity = quantity
		s.cart = append(s.cart, item)
	}
	err := s.save(ctx)
	s.mu.Unlock()

	if err != nil {
		s.notifier.Notify(ctx, enum.NoticeError, "Error adding item to cart")
		return err
	}
	s.notifier.Notify(ctx, enum.NoticeSuccess, fmt.Sprintf("%s added to cart!", item.Name))
	return nil
}

func (s *service) RemoveItem(ctx context.Context, id string) error {
	s.mu.Lock()
	removed, err := s.removeItem(ctx, id)
	s.mu.Unlock()

	return s.notifyRemoved(ctx, removed, err)
}

// removeItem runs with s.mu held and reports whether id was in the cart.
func (s *service) removeItem(ctx context.Context, id string) (bool, error) {
	idx := s.cart.IndexOf(id)
	if idx < 0 {
		return false, nil
	}
	s.cart = append(s.cart[:idx], s.cart[idx+1:]...)
	return true, s.save(ctx)
}

// notifyRemoved runs without s.mu so notifiers may read the cart.
func (s *service) notifyRemoved(ctx context.Context, removed bool, err error) error {
	if !removed {
		return nil
	}
	if err != nil {
		s.notifier.Notify(ctx, enum.NoticeError, "Error removing item from cart")
		return err
	}
	s.notifier.Notify(ctx, enum.NoticeSuccess, "Item removed from cart")
	return nil
}

func (s *service) SetQuantity(ctx context.Context, id string, quantity int) error {
	s.mu.Lock()
	if quantity <= 0 {
		removed, err := s.removeItem(ctx, id)
		s.mu.Unlock()
		return s.notifyRemoved(ctx, removed, err)
	}

	idx := s.cart.IndexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.cart[idx].Quantity = quantity
	err := s.save(ctx)
	s.mu.Unlock()

	if err != nil {
		s.notifier.Notify(ctx, enum.NoticeError, "Error updating item quantity")
		return err
	}
	return nil
}

func (s *service) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.cart = models.NewCart()
	err := s.save(ctx)
	s.mu.Unlock()

	if err != nil {
		s.notifier.Notify(ctx, enum.NoticeError, "Error clearing cart")
		return err
	}
	s.notifier.Notify(ctx, enum.NoticeSuccess, "Cart cleared")
	return nil
}

func (s *service) Items() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Clone()
}

func (s *service) Totals() pricing.Totals {
	return pricing.Compute(s.Items())
}

func (s *service) AuthState() models.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *service) Backend() enum.CartBackend {
	if s.AuthState().Authenticated() {
		return enum.CartBackendRemote
	}
	return enum.CartBackendLocal
}

func (s *service) CheckoutLink(ctx context.Context) (string, error) {
	s.mu.Lock()
	cart := s.cart.Clone()
	state := s.state
	s.mu.Unlock()

	msg, err := checkout.Message(state, cart, s.formatter)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		s.notifier.Notify(ctx, enum.NoticeError, "Your cart is empty")
		return "", err
	case errors.Is(err, checkout.ErrSignInRequired):
		s.notifier.Notify(ctx, enum.NoticeError, "Please sign in to checkout")
		return "", err
	case err != nil:
		return "", err
	}

	link, err := checkout.Link(s.chatNumber, msg)
	if err != nil {
		s.logger.Error("Failed to build checkout link", zap.Error(err))
		return "", err
	}
	return link, nil
}
