package httpserver

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	checkoutsvc "storefront/internal/service/checkout"
)

type productResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	InStock     bool   `json:"inStock"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       pricing.Display(pricing.FromCents(p.PriceCents)),
		Image:       p.Image,
		Category:    p.Category,
		InStock:     p.InStock,
	}
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func sessionUser(sess *domain.Session) userResponse {
	return userResponse{ID: sess.UserID, Email: sess.Email, Name: sess.Name, Role: sess.Role}
}

type profileResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type cartLineResponse struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image"`
	LineTotal string `json:"lineTotal"`
}

type cartResponse struct {
	Items     []cartLineResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Subtotal  string             `json:"subtotal"`
	Notice    string             `json:"notice,omitempty"`
}

func toCartResponse(c *domain.Cart, notice string) cartResponse {
	items := make([]cartLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		unit := pricing.FromCents(l.UnitPriceCents)
		items = append(items, cartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: pricing.Display(unit),
			Quantity:  l.Quantity,
			Image:     l.Image,
			LineTotal: pricing.Display(unit.Mul(decimal.NewFromInt(int64(l.Quantity)))),
		})
	}
	return cartResponse{
		Items:     items,
		ItemCount: c.ItemCount(),
		Subtotal:  pricing.Display(pricing.Subtotal(c.Lines)),
		Notice:    notice,
	}
}

// totalsResponse carries the two-decimal strings shown to shoppers.
type totalsResponse struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Tip      string `json:"tip"`
	Total    string `json:"total"`
}

func toTotalsResponse(q pricing.Quote) totalsResponse {
	return totalsResponse{
		Subtotal: pricing.Display(q.Subtotal),
		Shipping: pricing.Display(q.Shipping),
		Tax:      pricing.Display(q.Tax),
		Tip:      pricing.Display(q.Tip),
		Total:    pricing.Display(q.Total),
	}
}

type checkoutResponse struct {
	*checkoutsvc.View
	Display totalsResponse `json:"display"`
}

func toCheckoutResponse(v *checkoutsvc.View) checkoutResponse {
	return checkoutResponse{View: v, Display: toTotalsResponse(v.Quote)}
}
