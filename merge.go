package storefront

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gofalre.io/storefront/models"
	"gofalre.io/storefront/models/enum"
)

// MergeCarts reconciles the device cart with the signed-in user's stored
// cart. Local lines come first and win on id collisions: quantities are not
// summed and remote name or price never overwrite local ones. Remote lines
// with new ids are appended in their stored order.
func MergeCarts(localCart, remoteCart models.Cart) models.Cart {
	merged := localCart.Clone()
	for _, it := range remoteCart {
		if merged.IndexOf(it.ID) == -1 {
			merged = append(merged, it)
		}
	}
	return merged
}

// ProcessAuthChange lets the service act as the worker pool's processor.
func (s *service) ProcessAuthChange(ctx context.Context, state models.AuthState) error {
	return s.HandleAuthChange(ctx, state)
}

func (s *service) HandleAuthChange(ctx context.Context, next models.AuthState) error {
	s.mu.Lock()
	err := s.applyAuthChange(ctx, next)
	s.mu.Unlock()

	if errors.Is(err, ErrMerge) {
		s.notifier.Notify(ctx, enum.NoticeError, "Error syncing cart")
	}
	return err
}

// applyAuthChange runs with s.mu held.
func (s *service) applyAuthChange(ctx context.Context, next models.AuthState) error {
	prev := s.state
	s.state = next

	// Before the first load there is nothing to reconcile; Load will read
	// whatever store the new state owns.
	if !s.loaded {
		return nil
	}

	switch {
	case !prev.Authenticated() && next.Authenticated():
		return s.mergeOnSignIn(ctx, next)

	case prev.Authenticated() && !next.Authenticated():
		// keep the cart on the device after sign-out
		if err := s.local.Save(ctx, s.cart); err != nil {
			s.logger.Error("Failed to keep cart locally after sign-out", zap.Error(err))
			return fmt.Errorf("%w: %w", ErrPersist, err)
		}
		return nil

	case prev.Authenticated() && next.Authenticated() && prev.UserID != next.UserID:
		s.cart = s.load(ctx, next)
		return nil
	}

	return nil
}

// mergeOnSignIn runs with s.mu held. The local key is only cleared once it
// was read and the merged cart is safely stored remotely.
func (s *service) mergeOnSignIn(ctx context.Context, state models.AuthState) error {
	localCart, err := s.local.Load(ctx)
	localReadable := err == nil
	if !localReadable {
		// the in-memory cart mirrors the local key while anonymous
		s.logger.Warn("Failed to read local cart for merge, using in-memory cart", zap.Error(err))
		localCart = s.cart.Clone()
	}

	remoteCart, err := s.remote.GetCart(ctx, state.UserID)
	if err != nil {
		s.logger.Error("Failed to read remote cart for merge",
			zap.String("user_id", state.UserID), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrMerge, err)
	}

	s.logDiscardedRemoteLines(state.UserID, localCart, remoteCart)

	s.cart = MergeCarts(localCart, remoteCart)

	if err := s.remote.UpdateCart(ctx, state.UserID, s.cart); err != nil {
		s.logger.Error("Failed to store merged cart",
			zap.String("user_id", state.UserID), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrMerge, err)
	}

	if localReadable {
		if err := s.local.Clear(ctx); err != nil {
			s.logger.Warn("Failed to clear local cart after merge", zap.Error(err))
		}
	}

	s.logger.Info("Merged cart on sign-in",
		zap.String("user_id", state.UserID),
		zap.Int("local_lines", len(localCart)),
		zap.Int("remote_lines", len(remoteCart)),
		zap.Int("merged_lines", len(s.cart)))
	return nil
}

// logDiscardedRemoteLines records remote lines that lose to a local line
// with the same id, so dropped quantities can be traced.
func (s *service) logDiscardedRemoteLines(userID string, localCart, remoteCart models.Cart) {
	for _, r := range remoteCart {
		idx := localCart.IndexOf(r.ID)
		if idx < 0 || localCart[idx] == r {
			continue
		}
		s.logger.Info("Remote cart line replaced by local line",
			zap.String("user_id", userID),
			zap.String("item_id", r.ID),
			zap.Int("remote_quantity", r.Quantity),
			zap.Int("local_quantity", localCart[idx].Quantity),
			zap.Float64("remote_price", r.Price),
			zap.Float64("local_price", localCart[idx].Price))
	}
}
