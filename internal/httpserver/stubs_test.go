package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/pricing"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	identitysvc "storefront/internal/service/identity"
)

const validToken = "good-token"

var testSession = &domain.Session{ID: "sess-1", UserID: "user-1", Email: "ada@example.com", Name: "Ada", Role: domain.RoleCustomer}

type stubCatalog struct {
	products  []domain.Product
	lastQuery catalog.Query
}

func (s *stubCatalog) List(_ context.Context, q catalog.Query) ([]domain.Product, error) {
	s.lastQuery = q
	return catalog.Filter(s.products, q), nil
}

func (s *stubCatalog) Get(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalog) Categories(context.Context) ([]string, error) {
	return append([]string{catalog.AllCategories}, catalog.Categories(s.products)...), nil
}

type stubCart struct {
	cart   *domain.Cart
	notice cartsvc.Notice
	err    error
	calls  []string
}

func (s *stubCart) result(call string) (*domain.Cart, cartsvc.Notice, error) {
	s.calls = append(s.calls, call)
	if s.err != nil {
		return nil, "", s.err
	}
	c := s.cart
	if c == nil {
		c = &domain.Cart{}
	}
	return c, s.notice, nil
}

func (s *stubCart) Get(_ context.Context, _ string) (*domain.Cart, error) {
	c, _, err := s.result("get")
	return c, err
}

func (s *stubCart) Add(_ context.Context, _, productID string) (*domain.Cart, cartsvc.Notice, error) {
	return s.result("add:" + productID)
}

func (s *stubCart) SetQuantity(_ context.Context, _, productID string, qty int) (*domain.Cart, cartsvc.Notice, error) {
	return s.result("set:" + productID)
}

func (s *stubCart) Remove(_ context.Context, _, productID string) (*domain.Cart, cartsvc.Notice, error) {
	return s.result("remove:" + productID)
}

func (s *stubCart) Clear(_ context.Context, _ string) error {
	_, _, err := s.result("clear")
	return err
}

type stubCheckout struct {
	view       *checkoutsvc.View
	receipt    *checkoutsvc.Receipt
	err        error
	lastPatch  map[domain.CheckoutField]string
	lastPreset int
	lastAmount decimal.Decimal
	orders     []domain.Order
}

func (s *stubCheckout) out() (*checkoutsvc.View, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.view == nil {
		quote, _ := pricing.Compute(nil, decimal.Zero)
		return &checkoutsvc.View{State: domain.CheckoutCollectingDetails, Quote: quote}, nil
	}
	return s.view, nil
}

func (s *stubCheckout) Begin(context.Context, *domain.Session) (*checkoutsvc.View, error) {
	return s.out()
}

func (s *stubCheckout) View(context.Context, *domain.Session) (*checkoutsvc.View, error) {
	return s.out()
}

func (s *stubCheckout) UpdateDetails(_ context.Context, _ *domain.Session, patch map[domain.CheckoutField]string) (*checkoutsvc.View, error) {
	s.lastPatch = patch
	return s.out()
}

func (s *stubCheckout) SelectTipPreset(_ context.Context, _ *domain.Session, percent int) (*checkoutsvc.View, error) {
	s.lastPreset = percent
	return s.out()
}

func (s *stubCheckout) SetCustomTip(_ context.Context, _ *domain.Session, amount decimal.Decimal) (*checkoutsvc.View, error) {
	s.lastAmount = amount
	return s.out()
}

func (s *stubCheckout) Submit(context.Context, *domain.Session) (*checkoutsvc.Receipt, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.receipt, nil
}

func (s *stubCheckout) Orders(context.Context, *domain.Session) ([]domain.Order, error) {
	return s.orders, s.err
}

type stubIdentity struct {
	user       *domain.User
	signUpErr  error
	signInErr  error
	profileErr error
	loggedOut  []string
}

func (s *stubIdentity) SignUp(_ context.Context, in identitysvc.SignUpInput) (*domain.Session, string, error) {
	if s.signUpErr != nil {
		return nil, "", s.signUpErr
	}
	return &domain.Session{ID: "sess-new", UserID: "user-1", Email: in.Email, Name: in.Name, Role: domain.RoleCustomer}, validToken, nil
}

func (s *stubIdentity) SignIn(context.Context, string, string) (*domain.Session, string, error) {
	if s.signInErr != nil {
		return nil, "", s.signInErr
	}
	return testSession, validToken, nil
}

func (s *stubIdentity) Authenticate(_ context.Context, token string) (*domain.Session, error) {
	if token != validToken {
		return nil, identitysvc.ErrInvalidToken
	}
	return testSession, nil
}

func (s *stubIdentity) Profile(ctx context.Context, token string) (*domain.User, error) {
	if _, err := s.Authenticate(ctx, token); err != nil {
		return nil, err
	}
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	return s.user, nil
}

func (s *stubIdentity) Logout(_ context.Context, sess *domain.Session) error {
	s.loggedOut = append(s.loggedOut, sess.ID)
	return nil
}

func (s *stubIdentity) SessionTTLSeconds() int { return 3600 }

type testDeps struct {
	catalog  *stubCatalog
	cart     *stubCart
	checkout *stubCheckout
	identity *stubIdentity
}

func newTestRouter(t *testing.T, anonKey string) (*gin.Engine, *testDeps) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	d := &testDeps{
		catalog:  &stubCatalog{products: catalog.Default()},
		cart:     &stubCart{},
		checkout: &stubCheckout{},
		identity: &stubIdentity{},
	}
	router, err := buildRouter(nil, nil, Deps{
		Catalog:       d.catalog,
		Cart:          d.cart,
		Checkout:      d.checkout,
		Identity:      d.identity,
		PublicAnonKey: anonKey,
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router, d
}

func do(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
