package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
	cartrepo "storefront/internal/repository/cart"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
	// ErrNoSession is returned when the owning session no longer exists.
	ErrNoSession = errors.New("session not found")
)

const RemovedNotice = "Item removed from cart"

// Notice is the user-facing confirmation of a cart mutation.
type Notice string

type cartRepo interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Update(ctx context.Context, sessionID string, fn cartrepo.Mutation) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo     cartRepo
	products productRepo
	logger   *zap.Logger
}

func New(repo cartRepo, products productRepo, logger *zap.Logger) *Service {
	logger = logging.OrNop(logger)
	return &Service{repo: repo, products: products, logger: logger}
}

func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.repo.Get(ctx, sessionID)
}

// Add puts one unit of the product in the cart, merging with an existing line.
func (s *Service) Add(ctx context.Context, sessionID, productID string) (*domain.Cart, Notice, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, "", ErrProductNotFound
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrProductNotFound
		}
		return nil, "", err
	}
	if !p.InStock {
		return nil, "", ErrOutOfStock
	}

	c, err := s.update(ctx, sessionID, func(c *domain.Cart) error {
		c.Add(*p)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	s.logger.Debug("cart line added", zap.String("session_id", sessionID), zap.String("product_id", p.ID))
	return c, Notice(fmt.Sprintf("%s added to cart!", p.Name)), nil
}

// SetQuantity replaces a line quantity. A quantity of zero or less removes
// the line and yields the removal notice.
func (s *Service) SetQuantity(ctx context.Context, sessionID, productID string, qty int) (*domain.Cart, Notice, error) {
	var removed bool
	c, err := s.update(ctx, sessionID, func(c *domain.Cart) error {
		removed = c.SetQuantity(productID, qty)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	if removed {
		return c, RemovedNotice, nil
	}
	return c, "", nil
}

func (s *Service) Remove(ctx context.Context, sessionID, productID string) (*domain.Cart, Notice, error) {
	var removed bool
	c, err := s.update(ctx, sessionID, func(c *domain.Cart) error {
		removed = c.Remove(productID)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	if !removed {
		return c, "", nil
	}
	return c, RemovedNotice, nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.repo.Clear(ctx, sessionID)
}

func (s *Service) update(ctx context.Context, sessionID string, fn cartrepo.Mutation) (*domain.Cart, error) {
	c, err := s.repo.Update(ctx, sessionID, fn)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrNoSession
	}
	return c, err
}
