package validate_test

import (
	"testing"

	"github.com/beautydb/backoffice/pkg/validate"
)

type variantInput struct {
	Size          string   `json:"size"           validate:"required,max=100"`
	Price         *float64 `json:"price"          validate:"required,gte=0"`
	StockQuantity *int     `json:"stock_quantity" validate:"required,gte=0"`
}

type serviceInput struct {
	Name        string         `json:"name"         validate:"required,min=3,max=100"`
	Time        int            `json:"time"         validate:"gte=0"`
	BookingLink *string        `json:"booking_link" validate:"nullable,url"`
	Email       string         `json:"email"        validate:"nullable,email"`
	Status      string         `json:"status"       validate:"nullable,in=pending|paid|shipped"`
	Variants    []variantInput `json:"variants"     validate:"dive"`
}

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }
func str(v string) *string   { return &v }

func TestValidInput(t *testing.T) {
	errs := validate.Struct(serviceInput{
		Name:        "Facial",
		Time:        45,
		BookingLink: str("https://book.example.com/facial"),
		Status:      "paid",
		Variants:    []variantInput{{Size: "50ml", Price: f64(0), StockQuantity: intp(0)}},
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(serviceInput{})
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
	if _, ok := errs["booking_link"]; ok {
		t.Error("nil nullable pointer must be skipped")
	}
}

func TestPointerZeroIsPresent(t *testing.T) {
	errs := validate.Struct(variantInput{Size: "S", Price: f64(0), StockQuantity: intp(0)})
	if validate.HasErrors(errs) {
		t.Errorf("explicit zero must satisfy required, got: %v", errs)
	}
}

func TestNegativePriceFails(t *testing.T) {
	errs := validate.Struct(variantInput{Size: "S", Price: f64(-1), StockQuantity: intp(1)})
	if _, ok := errs["price"]; !ok {
		t.Errorf("expected price error, got: %v", errs)
	}
}

func TestDiveKeysNestedErrors(t *testing.T) {
	errs := validate.Struct(serviceInput{
		Name: "Facial",
		Variants: []variantInput{
			{Size: "ok", Price: f64(1), StockQuantity: intp(1)},
			{Size: "", Price: nil, StockQuantity: intp(-3)},
		},
	})
	for _, key := range []string{"variants.1.size", "variants.1.price", "variants.1.stock_quantity"} {
		if _, ok := errs[key]; !ok {
			t.Errorf("expected error for %s, got: %v", key, errs)
		}
	}
	if _, ok := errs["variants.0.size"]; ok {
		t.Error("valid element must not report errors")
	}
}

func TestURLRule(t *testing.T) {
	errs := validate.Struct(serviceInput{Name: "Facial", BookingLink: str("not a url")})
	if _, ok := errs["booking_link"]; !ok {
		t.Error("expected booking_link error")
	}
}

func TestInRule(t *testing.T) {
	errs := validate.Struct(serviceInput{Name: "Facial", Status: "lost"})
	if _, ok := errs["status"]; !ok {
		t.Error("expected status error")
	}
}

func TestEmailRule(t *testing.T) {
	if errs := validate.Struct(serviceInput{Name: "Facial", Email: "nope"}); !validate.HasErrors(errs) {
		t.Error("expected email validation error")
	}
}

func TestMinLength(t *testing.T) {
	errs := validate.Struct(serviceInput{Name: "ab"})
	if got := errs["name"]; got != "The name must be at least 3 characters." {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestDateRule(t *testing.T) {
	type in struct {
		When string `json:"when" validate:"required,date"`
	}
	if errs := validate.Struct(in{When: "2024-05-01"}); validate.HasErrors(errs) {
		t.Errorf("expected date to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{When: "yesterday"}); !validate.HasErrors(errs) {
		t.Error("expected invalid date to fail")
	}
}
