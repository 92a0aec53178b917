package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/pricing"
)

var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrCheckoutNotStarted = errors.New("checkout has not been started")
	ErrUnknownPreset      = errors.New("unknown tip preset")
)

// ValidationError lists the required fields still blank at submission.
type ValidationError struct {
	Missing []domain.CheckoutField
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, f := range e.Missing {
		names = append(names, f.String())
	}
	return "missing required fields: " + strings.Join(names, ", ")
}

type cartReader interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
}

type orderStore interface {
	Create(ctx context.Context, o *domain.Order) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// View is everything the checkout page renders.
type View struct {
	State         domain.CheckoutState   `json:"state"`
	Details       domain.CheckoutDetails `json:"details"`
	Lines         []domain.CartLine      `json:"items"`
	Quote         pricing.Quote          `json:"quote"`
	TipPresets    []pricing.PresetOption `json:"tipPresets"`
	MissingFields []domain.CheckoutField `json:"missingFields"`
	CanSubmit     bool                   `json:"canSubmit"`
}

// Receipt confirms a submitted order.
type Receipt struct {
	Order   *domain.Order        `json:"order"`
	State   domain.CheckoutState `json:"state"`
	Message string               `json:"message"`
}

type Service struct {
	carts  cartReader
	drafts cache.DraftStore
	orders orderStore
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func New(carts cartReader, drafts cache.DraftStore, orders orderStore, logger *zap.Logger) *Service {
	logger = logging.OrNop(logger)
	return &Service{
		carts:  carts,
		drafts: drafts,
		orders: orders,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Begin opens checkout for a non-empty cart. An existing draft is resumed.
func (s *Service) Begin(ctx context.Context, sess *domain.Session) (*View, error) {
	cart, err := s.carts.Get(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrCartEmpty
	}

	draft, err := s.drafts.Get(ctx, sess.ID)
	switch {
	case errors.Is(err, cache.ErrDraftMissing):
		draft = &domain.CheckoutDraft{
			SessionID: sess.ID,
			Details: domain.CheckoutDetails{
				Email:   sess.Email,
				Country: domain.DefaultCountry,
				Tip:     decimal.Zero,
			},
		}
	case err != nil:
		return nil, err
	}
	draft.State = domain.CheckoutCollectingDetails
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return s.view(draft, cart), nil
}

func (s *Service) View(ctx context.Context, sess *domain.Session) (*View, error) {
	draft, cart, err := s.load(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	return s.view(draft, cart), nil
}

// UpdateDetails applies a partial form update.
func (s *Service) UpdateDetails(ctx context.Context, sess *domain.Session, patch map[domain.CheckoutField]string) (*View, error) {
	draft, cart, err := s.load(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	for f, v := range patch {
		draft.Details.Set(f, v)
	}
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return s.view(draft, cart), nil
}

// SelectTipPreset sets the tip to percent of the current subtotal.
func (s *Service) SelectTipPreset(ctx context.Context, sess *domain.Session, percent int) (*View, error) {
	if !pricing.IsPreset(percent) {
		return nil, ErrUnknownPreset
	}
	draft, cart, err := s.load(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	draft.Details.Tip = pricing.PresetAmount(pricing.Subtotal(cart.Lines), percent)
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return s.view(draft, cart), nil
}

func (s *Service) SetCustomTip(ctx context.Context, sess *domain.Session, amount decimal.Decimal) (*View, error) {
	if amount.IsNegative() {
		return nil, pricing.ErrNegativeTip
	}
	draft, cart, err := s.load(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	draft.Details.Tip = amount
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return s.view(draft, cart), nil
}

// Submit validates the draft and hands the order off. On failure the draft
// stays open for correction.
func (s *Service) Submit(ctx context.Context, sess *domain.Session) (*Receipt, error) {
	draft, cart, err := s.load(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	draft.State = domain.CheckoutValidating
	if missing := draft.Details.MissingFields(); len(missing) > 0 {
		return nil, s.reopen(ctx, draft, &ValidationError{Missing: missing})
	}
	if cart.IsEmpty() {
		return nil, s.reopen(ctx, draft, ErrCartEmpty)
	}
	quote, err := pricing.Compute(cart.Lines, draft.Details.Tip)
	if err != nil {
		return nil, s.reopen(ctx, draft, err)
	}

	order := &domain.Order{
		ID:        s.newID(),
		UserID:    sess.UserID,
		SessionID: sess.ID,
		Lines:     cart.Lines,
		Details:   draft.Details,
		Subtotal:  quote.Subtotal,
		Shipping:  quote.Shipping,
		Tax:       quote.Tax,
		Tip:       quote.Tip,
		Total:     quote.Total,
		Status:    domain.OrderStatusSubmitted,
		CreatedAt: s.now(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, domain.ErrCartChanged) {
			s.logger.Info("cart changed during submit", zap.String("session_id", sess.ID))
			return nil, s.reopen(ctx, draft, err)
		}
		s.logger.Error("store order", zap.String("session_id", sess.ID), zap.Error(err))
		return nil, s.reopen(ctx, draft, fmt.Errorf("store order: %w", err))
	}

	if err := s.drafts.Delete(ctx, sess.ID); err != nil {
		s.logger.Warn("drop submitted draft", zap.String("session_id", sess.ID), zap.Error(err))
	}
	s.logger.Info("order submitted",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("total", pricing.Display(order.Total)),
	)
	return &Receipt{
		Order: order,
		State: domain.CheckoutSubmitted,
		Message: fmt.Sprintf(
			"Order placed successfully! Total: %s. You'll receive a confirmation email shortly.",
			pricing.Display(order.Total),
		),
	}, nil
}

// Discard drops any draft of the session.
func (s *Service) Discard(ctx context.Context, sessionID string) error {
	return s.drafts.Delete(ctx, sessionID)
}

// Orders returns the order history of the session's user, newest first.
func (s *Service) Orders(ctx context.Context, sess *domain.Session) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, sess.UserID)
}

// load fetches a draft that is collecting details together with the live cart.
func (s *Service) load(ctx context.Context, sessionID string) (*domain.CheckoutDraft, *domain.Cart, error) {
	draft, err := s.drafts.Get(ctx, sessionID)
	if errors.Is(err, cache.ErrDraftMissing) {
		return nil, nil, ErrCheckoutNotStarted
	}
	if err != nil {
		return nil, nil, err
	}
	if draft.State != domain.CheckoutCollectingDetails {
		return nil, nil, ErrCheckoutNotStarted
	}
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return draft, cart, nil
}

func (s *Service) reopen(ctx context.Context, draft *domain.CheckoutDraft, cause error) error {
	draft.State = domain.CheckoutCollectingDetails
	if err := s.save(ctx, draft); err != nil {
		s.logger.Warn("reopen draft", zap.String("session_id", draft.SessionID), zap.Error(err))
	}
	return cause
}

func (s *Service) save(ctx context.Context, draft *domain.CheckoutDraft) error {
	draft.UpdatedAt = s.now()
	return s.drafts.Set(ctx, draft)
}

func (s *Service) view(draft *domain.CheckoutDraft, cart *domain.Cart) *View {
	// tip is never negative here, so Compute cannot fail
	quote, _ := pricing.Compute(cart.Lines, draft.Details.Tip)
	missing := draft.Details.MissingFields()
	if missing == nil {
		missing = []domain.CheckoutField{}
	}
	lines := cart.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return &View{
		State:         draft.State,
		Details:       draft.Details,
		Lines:         lines,
		Quote:         quote,
		TipPresets:    pricing.Presets(quote.Subtotal, draft.Details.Tip),
		MissingFields: missing,
		CanSubmit:     len(missing) == 0,
	}
}
