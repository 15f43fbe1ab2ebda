package validate_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/marketplace/pkg/validate"
)

type signupInput struct {
	Handle   string `json:"handle"   validate:"required,handle"`
	Email    string `json:"email"    validate:"omitempty,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user manager"`
}

type line struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"gt=0"`
}

type orderInput struct {
	Address string          `json:"delivery_address" validate:"required,min=10,max=255"`
	Budget  decimal.Decimal `json:"budget"           validate:"gt=0"`
	Items   []line          `json:"items"            validate:"required,min=1,dive"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(signupInput{
		Handle:   "john_doe",
		Email:    "",
		Password: "secret123",
		Role:     "user",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(signupInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	if errs["handle"] != "The handle field is required." {
		t.Errorf("unexpected handle message: %q", errs["handle"])
	}
	if _, ok := errs["password"]; !ok {
		t.Error("expected password to be required")
	}
	if _, ok := errs["email"]; ok {
		t.Error("email is optional")
	}
}

func TestHandleRule(t *testing.T) {
	for _, bad := range []string{"ab", "has space", "emoji🙂"} {
		errs := validate.Struct(signupInput{Handle: bad, Password: "secret123"})
		if _, ok := errs["handle"]; !ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestEmailAndOneOf(t *testing.T) {
	errs := validate.Struct(signupInput{Handle: "alice", Password: "secret123", Email: "nope", Role: "root"})
	if errs["email"] != "The email must be a valid email address." {
		t.Errorf("unexpected email message: %q", errs["email"])
	}
	if errs["role"] != "The selected role is invalid." {
		t.Errorf("unexpected role message: %q", errs["role"])
	}
}

func TestStringLengthMessages(t *testing.T) {
	errs := validate.Struct(signupInput{Handle: "alice", Password: "short"})
	if errs["password"] != "The password must be at least 8 characters." {
		t.Errorf("unexpected message: %q", errs["password"])
	}
}

func TestDecimalAndNestedFields(t *testing.T) {
	errs := validate.Struct(orderInput{
		Address: "short",
		Budget:  decimal.Zero,
		Items:   []line{{ProductID: 1, Quantity: 0}},
	})

	if errs["budget"] != "The budget must be greater than 0." {
		t.Errorf("unexpected budget message: %q", errs["budget"])
	}
	if errs["delivery_address"] != "The delivery_address must be at least 10 characters." {
		t.Errorf("unexpected address message: %q", errs["delivery_address"])
	}
	if errs["items[0].quantity"] != "The quantity must be greater than 0." {
		t.Errorf("unexpected nested message: %v", errs)
	}

	errs = validate.Struct(orderInput{
		Address: "221B Baker Street",
		Budget:  decimal.RequireFromString("9.99"),
		Items:   []line{},
	})
	if errs["items"] != "The items must have at least 1 items." {
		t.Errorf("unexpected items message: %v", errs)
	}
}

func TestNonStructHasNoErrors(t *testing.T) {
	if validate.HasErrors(validate.Struct("plain string")) {
		t.Error("non-struct values should not produce errors")
	}
}

type priceInput struct {
	Price decimal.Decimal  `json:"price" validate:"gt=0,money"`
	Floor *decimal.Decimal `json:"floor" validate:"omitempty,money"`
}

func TestMoneyRule(t *testing.T) {
	for _, ok := range []string{"9.99", "10", "0.01", "9.990", "1000000.50"} {
		floor := decimal.RequireFromString(ok)
		if errs := validate.Struct(priceInput{Price: decimal.RequireFromString(ok), Floor: &floor}); validate.HasErrors(errs) {
			t.Errorf("expected %s to be accepted, got %v", ok, errs)
		}
	}

	for _, bad := range []string{"0.004", "9.999", "0.0000001", "12.345"} {
		errs := validate.Struct(priceInput{Price: decimal.RequireFromString(bad)})
		if errs["price"] != "The price must have at most two decimal places." {
			t.Errorf("%s: unexpected price message: %q", bad, errs["price"])
		}
	}

	floor := decimal.RequireFromString("1.005")
	errs := validate.Struct(priceInput{Price: decimal.RequireFromString("1"), Floor: &floor})
	if _, ok := errs["floor"]; !ok {
		t.Errorf("expected pointer fields to be checked, got %v", errs)
	}
}
