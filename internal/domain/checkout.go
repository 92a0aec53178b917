package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutField enumerates the fields of the checkout form.
type CheckoutField int

const (
	FieldEmail CheckoutField = iota + 1
	FieldFirstName
	FieldLastName
	FieldAddress
	FieldCity
	FieldState
	FieldZipCode
	FieldCountry
	FieldPhone
	FieldSpecialInstructions
)

var checkoutFieldNames = map[CheckoutField]string{
	FieldEmail:               "email",
	FieldFirstName:           "firstName",
	FieldLastName:            "lastName",
	FieldAddress:             "address",
	FieldCity:                "city",
	FieldState:               "state",
	FieldZipCode:             "zipCode",
	FieldCountry:             "country",
	FieldPhone:               "phone",
	FieldSpecialInstructions: "specialInstructions",
}

// String returns the wire name of the field.
func (f CheckoutField) String() string {
	if name, ok := checkoutFieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// MarshalText lets fields be used as JSON values and map keys.
func (f CheckoutField) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ParseCheckoutField maps a wire name to its field.
func ParseCheckoutField(name string) (CheckoutField, bool) {
	for f, n := range checkoutFieldNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return f, true
		}
	}
	return 0, false
}

// RequiredFields lists the fields that must be filled before an order can be
// submitted, in form order.
func RequiredFields() []CheckoutField {
	return []CheckoutField{
		FieldEmail,
		FieldFirstName,
		FieldLastName,
		FieldAddress,
		FieldCity,
		FieldState,
		FieldZipCode,
	}
}

const DefaultCountry = "US"

// CheckoutDetails is the contact, shipping and tip data collected during checkout.
type CheckoutDetails struct {
	Email               string          `json:"email"`
	FirstName           string          `json:"firstName"`
	LastName            string          `json:"lastName"`
	Address             string          `json:"address"`
	City                string          `json:"city"`
	State               string          `json:"state"`
	ZipCode             string          `json:"zipCode"`
	Country             string          `json:"country"`
	Phone               string          `json:"phone,omitempty"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	Tip                 decimal.Decimal `json:"tip"`
}

func (d *CheckoutDetails) field(f CheckoutField) *string {
	switch f {
	case FieldEmail:
		return &d.Email
	case FieldFirstName:
		return &d.FirstName
	case FieldLastName:
		return &d.LastName
	case FieldAddress:
		return &d.Address
	case FieldCity:
		return &d.City
	case FieldState:
		return &d.State
	case FieldZipCode:
		return &d.ZipCode
	case FieldCountry:
		return &d.Country
	case FieldPhone:
		return &d.Phone
	case FieldSpecialInstructions:
		return &d.SpecialInstructions
	}
	return nil
}

// Value returns the current value of f.
func (d CheckoutDetails) Value(f CheckoutField) string {
	if p := d.field(f); p != nil {
		return *p
	}
	return ""
}

// Set assigns value to f; unknown fields are ignored.
func (d *CheckoutDetails) Set(f CheckoutField, value string) {
	if p := d.field(f); p != nil {
		*p = value
	}
}

// MissingFields returns the required fields that are blank.
func (d CheckoutDetails) MissingFields() []CheckoutField {
	var missing []CheckoutField
	for _, f := range RequiredFields() {
		if strings.TrimSpace(d.Value(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// CheckoutState is the position of a draft in the checkout flow.
type CheckoutState string

const (
	CheckoutIdle              CheckoutState = "idle"
	CheckoutCollectingDetails CheckoutState = "collecting_details"
	CheckoutValidating        CheckoutState = "validating"
	CheckoutSubmitted         CheckoutState = "submitted"
)

// CheckoutDraft is the in-progress checkout of one session.
type CheckoutDraft struct {
	SessionID string          `json:"sessionId"`
	State     CheckoutState   `json:"state"`
	Details   CheckoutDetails `json:"details"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
