package credits

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/speakband/speakband/internal/repository"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUnknownProduct = errors.New("unknown product")
)

// productCredits maps purchasable product identifiers to credit quantities.
var productCredits = map[string]int{
	"credit_pack_8": 8,
}

// Purchase event types that grant credits; everything else is acknowledged
// without effect.
const (
	EventInitialPurchase = "INITIAL_PURCHASE"
	EventRenewal         = "RENEWAL"
)

type PurchaseEvent struct {
	Type      string `json:"type"`
	AppUserID string `json:"app_user_id"`
	ProductID string `json:"product_id"`
}

type GrantResult struct {
	AlreadyGranted bool
}

type Service struct {
	repo repository.CreditRepository
}

func NewService(repo repository.CreditRepository) *Service {
	return &Service{repo: repo}
}

// GrantFreeCredit gives a user their one free scoring credit. Calling it
// again is a no-op: the profile's free_credit_granted flag is checked before
// any insert, so at most one free credit row ever exists per user.
func (s *Service) GrantFreeCredit(ctx context.Context, userID, displayName string) (GrantResult, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return GrantResult{}, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		if err := s.repo.CreateProfile(ctx, repository.CreateProfileInput{
			UserID:      userID,
			DisplayName: displayName,
		}); err != nil {
			return GrantResult{}, fmt.Errorf("create profile: %w", err)
		}
	} else if profile.FreeCreditGranted {
		return GrantResult{AlreadyGranted: true}, nil
	}

	if err := s.repo.GrantFreeCredit(ctx, userID); err != nil {
		return GrantResult{}, fmt.Errorf("grant free credit: %w", err)
	}
	slog.Info("free credit granted", "user_id", userID)
	return GrantResult{}, nil
}

// HandlePurchase converts a purchase-webhook event into credits. Unknown
// products are rejected rather than silently granting nothing.
func (s *Service) HandlePurchase(ctx context.Context, event PurchaseEvent) (int, error) {
	if event.Type != EventInitialPurchase && event.Type != EventRenewal {
		slog.Info("ignoring non-purchase event", "type", event.Type)
		return 0, nil
	}

	amount, ok := productCredits[event.ProductID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownProduct, event.ProductID)
	}

	profile, err := s.repo.GetProfile(ctx, event.AppUserID)
	if err != nil {
		return 0, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return 0, fmt.Errorf("%w: %s", ErrUserNotFound, event.AppUserID)
	}

	if err := s.repo.AddPurchaseCredits(ctx, event.AppUserID, amount); err != nil {
		return 0, fmt.Errorf("add purchase credits: %w", err)
	}
	slog.Info("purchase credits added", "user_id", event.AppUserID, "product_id", event.ProductID, "amount", amount)
	return amount, nil
}
