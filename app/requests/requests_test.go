package requests_test

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/marketplace/app/requests"
	"github.com/shashiranjanraj/marketplace/pkg/validate"
)

func ptr[T any](v T) *T { return &v }

func TestRegisterValidation(t *testing.T) {
	errs := validate.Struct(requests.Register{Handle: "a!", Email: ptr("nope"), Password: "short"})
	assert.Contains(t, errs, "handle")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	errs = validate.Struct(requests.Register{Handle: "alice", Password: "password123"})
	assert.Empty(t, errs)
}

func TestRegisterNormalize(t *testing.T) {
	r := requests.Register{Handle: "  alice ", Email: ptr(" Alice@Example.COM ")}
	r.Normalize()
	assert.Equal(t, "alice", r.Handle)
	require.NotNil(t, r.Email)
	assert.Equal(t, "alice@example.com", *r.Email)

	r = requests.Register{Handle: "bob", Email: ptr("  ")}
	r.Normalize()
	assert.Nil(t, r.Email)
}

func TestLoginIdentifier(t *testing.T) {
	assert.Equal(t, "alice", requests.Login{Login: " alice "}.Identifier())
	assert.Equal(t, "bob", requests.Login{Handle: "bob"}.Identifier())
	assert.Equal(t, "c@x.io", requests.Login{Email: "c@x.io"}.Identifier())

	errs := validate.Struct(requests.Login{Password: "x"})
	assert.Equal(t, "The login field is required.", errs["login"])
	assert.Empty(t, validate.Struct(requests.Login{Email: "c@x.io", Password: "x"}))
}

func TestCreateProductValidation(t *testing.T) {
	errs := validate.Struct(requests.CreateProduct{Name: "Wi", Price: decimal.NewFromInt(-1)})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "qty")

	errs = validate.Struct(requests.CreateProduct{Name: "Widget", Price: decimal.RequireFromString("9.99"), Qty: ptr(0)})
	assert.Empty(t, errs)

	for _, price := range []string{"0.004", "9.999", "1000000.01"} {
		errs = validate.Struct(requests.CreateProduct{Name: "Widget", Price: decimal.RequireFromString(price), Qty: ptr(1)})
		assert.Contains(t, errs, "price", price)
	}
}

func TestUpdateProductPartial(t *testing.T) {
	assert.True(t, requests.UpdateProduct{}.Empty())
	assert.Empty(t, validate.Struct(requests.UpdateProduct{}))

	errs := validate.Struct(requests.UpdateProduct{Price: ptr(decimal.Zero), Qty: ptr(-1)})
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "qty")

	errs = validate.Struct(requests.UpdateProduct{Price: ptr(decimal.RequireFromString("0.004"))})
	assert.Equal(t, "The price must have at most two decimal places.", errs["price"])
}

func TestPlaceOrderValidationUsesNestedPaths(t *testing.T) {
	errs := validate.Struct(requests.PlaceOrder{
		DeliveryAddress: "short",
		Items:           []requests.OrderLine{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 0}},
	})
	assert.Contains(t, errs, "delivery_address")
	assert.Contains(t, errs, "items[1].quantity")

	errs = validate.Struct(requests.PlaceOrder{DeliveryAddress: "1 Long Street, Town"})
	assert.Contains(t, errs, "items")
}

func TestPlaceOrderMerged(t *testing.T) {
	p := requests.PlaceOrder{Items: []requests.OrderLine{
		{ProductID: 2, Quantity: 1},
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 4},
	}}
	assert.Equal(t, []requests.OrderLine{{ProductID: 2, Quantity: 5}, {ProductID: 1, Quantity: 3}}, p.Merged())
}

func TestParseProductQuery(t *testing.T) {
	q, errs := requests.ParseProductQuery(url.Values{
		"seller_id": {"3"}, "in_stock": {"true"}, "min_price": {"1.5"}, "max_price": {"10"},
		"q": {"wid"}, "limit": {"5"}, "offset": {"10"},
	})
	require.Empty(t, errs)
	assert.EqualValues(t, 3, q.SellerID)
	require.NotNil(t, q.InStock)
	assert.True(t, *q.InStock)
	assert.Equal(t, "1.5", q.MinPrice.String())
	assert.Equal(t, "wid", q.Q)
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, 10, q.Offset)

	_, errs = requests.ParseProductQuery(url.Values{"limit": {"x"}, "in_stock": {"maybe"}})
	assert.Contains(t, errs, "limit")
	assert.Contains(t, errs, "in_stock")

	_, errs = requests.ParseProductQuery(url.Values{"limit": {"500"}})
	assert.Contains(t, errs, "limit")

	_, errs = requests.ParseProductQuery(url.Values{"min_price": {"5"}, "max_price": {"1"}})
	assert.Contains(t, errs, "min_price")

	_, errs = requests.ParseProductQuery(url.Values{"min_price": {"0.001"}, "max_price": {"9.999"}})
	assert.Contains(t, errs, "min_price")
	assert.Contains(t, errs, "max_price")
}

func TestParseOrderQuery(t *testing.T) {
	q, errs := requests.ParseOrderQuery(url.Values{"all": {"1"}, "status": {"shipped"}})
	require.Empty(t, errs)
	assert.True(t, q.All)
	assert.Equal(t, "shipped", q.Status)

	_, errs = requests.ParseOrderQuery(url.Values{"status": {"lost"}})
	assert.Contains(t, errs, "status")
}
