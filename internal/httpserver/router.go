package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/logging"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	identitysvc "storefront/internal/service/identity"
)

type catalogService interface {
	List(ctx context.Context, q catalog.Query) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type cartService interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Add(ctx context.Context, sessionID, productID string) (*domain.Cart, cartsvc.Notice, error)
	SetQuantity(ctx context.Context, sessionID, productID string, qty int) (*domain.Cart, cartsvc.Notice, error)
	Remove(ctx context.Context, sessionID, productID string) (*domain.Cart, cartsvc.Notice, error)
	Clear(ctx context.Context, sessionID string) error
}

type checkoutService interface {
	Begin(ctx context.Context, sess *domain.Session) (*checkoutsvc.View, error)
	View(ctx context.Context, sess *domain.Session) (*checkoutsvc.View, error)
	UpdateDetails(ctx context.Context, sess *domain.Session, patch map[domain.CheckoutField]string) (*checkoutsvc.View, error)
	SelectTipPreset(ctx context.Context, sess *domain.Session, percent int) (*checkoutsvc.View, error)
	SetCustomTip(ctx context.Context, sess *domain.Session, amount decimal.Decimal) (*checkoutsvc.View, error)
	Submit(ctx context.Context, sess *domain.Session) (*checkoutsvc.Receipt, error)
	Orders(ctx context.Context, sess *domain.Session) ([]domain.Order, error)
}

type identityService interface {
	SignUp(ctx context.Context, in identitysvc.SignUpInput) (*domain.Session, string, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, string, error)
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	Profile(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, sess *domain.Session) error
	SessionTTLSeconds() int
}

// Deps are the services the router dispatches to.
type Deps struct {
	Catalog  catalogService
	Cart     cartService
	Checkout checkoutService
	Identity identityService
	// PublicAnonKey guards sign-up; empty disables the check.
	PublicAnonKey string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db Pinger, deps Deps) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Cart == nil || deps.Checkout == nil || deps.Identity == nil {
		return nil, errors.New("httpserver: all services are required")
	}
	logger = logging.OrNop(logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          600 * time.Second,
	}))

	h := &handlers{deps: deps, logger: logger}

	router.GET("/health", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)
	router.GET("/categories", h.listCategories)

	router.POST("/signup", anonKeyMiddleware(deps.PublicAnonKey), h.signUp)
	router.POST("/signin", h.signIn)
	router.GET("/user/profile", h.profile)

	authed := router.Group("/", sessionMiddleware(deps.Identity, logger))
	authed.POST("/logout", h.logout)

	authed.GET("/cart", h.getCart)
	authed.POST("/cart/items", h.addCartItem)
	authed.PUT("/cart/items/:id", h.setCartItemQuantity)
	authed.DELETE("/cart/items/:id", h.removeCartItem)
	authed.DELETE("/cart", h.clearCart)

	authed.POST("/checkout", h.beginCheckout)
	authed.GET("/checkout", h.viewCheckout)
	authed.PATCH("/checkout/details", h.updateCheckoutDetails)
	authed.PUT("/checkout/tip", h.setCheckoutTip)
	authed.POST("/checkout/submit", h.submitCheckout)

	authed.GET("/orders", h.listOrders)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}
