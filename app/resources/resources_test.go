package resources_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/shashiranjanraj/marketplace/app/models"
	"github.com/shashiranjanraj/marketplace/app/requests"
	"github.com/shashiranjanraj/marketplace/app/resources"
	"github.com/shashiranjanraj/marketplace/pkg/bind"
	"github.com/shashiranjanraj/marketplace/pkg/resource"
)

func TestMoneyKeepsTwoDecimals(t *testing.T) {
	assert.Equal(t, json.Number("9.90"), resources.Money(decimal.RequireFromString("9.9")))
	assert.Equal(t, json.Number("10.00"), resources.Money(decimal.NewFromInt(10)))
}

func TestUserHidesPasswordHash(t *testing.T) {
	email := "a@example.com"
	m := resource.One(resources.User, models.User{Handle: "alice", Email: &email, PasswordHash: "secret", Role: models.RoleUser})
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.Equal(t, "alice", gjson.GetBytes(data, "handle").String())
	assert.Equal(t, email, gjson.GetBytes(data, "email").String())

	m = resource.One(resources.User, models.User{Handle: "bob"})
	assert.NotContains(t, m, "email")
}

// A product rendered by the API and posted back as a create request must
// describe the same product.
func TestProductRoundTrip(t *testing.T) {
	p := models.Product{
		SellerID:    3,
		Name:        "Widget",
		Description: "A useful widget",
		Price:       decimal.RequireFromString("9.99"),
		Quantity:    5,
	}
	data, err := json.Marshal(resource.One(resources.Product, p))
	require.NoError(t, err)
	assert.Equal(t, "9.99", gjson.GetBytes(data, "price").Raw)
	assert.True(t, gjson.GetBytes(data, "in_stock").Bool())

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(data))
	var in requests.CreateProduct
	errs, err := bind.JSON(httptest.NewRecorder(), req, &in)
	require.NoError(t, err)
	require.Empty(t, errs)

	assert.Equal(t, p.Name, in.Name)
	assert.Equal(t, p.Description, in.Description)
	assert.True(t, p.Price.Equal(in.Price))
	require.NotNil(t, in.Qty)
	assert.Equal(t, p.Quantity, *in.Qty)
}

func TestOrderIncludesItems(t *testing.T) {
	o := models.Order{
		ID:              1,
		UserID:          2,
		DeliveryAddress: "1 Long Street",
		Status:          models.StatusCreated,
		TotalPrice:      decimal.RequireFromString("19.98"),
		Items: []models.OrderItem{{
			ID: 1, ProductID: 7, Quantity: 2,
			UnitPrice: decimal.RequireFromString("9.99"),
			Price:     decimal.RequireFromString("19.98"),
		}},
	}
	data, err := json.Marshal(resource.One(resources.Order, o))
	require.NoError(t, err)
	assert.Equal(t, "19.98", gjson.GetBytes(data, "total_price").Raw)
	assert.Equal(t, "created", gjson.GetBytes(data, "status").String())
	assert.EqualValues(t, 1, gjson.GetBytes(data, "items.#").Int())
	assert.Equal(t, "9.99", gjson.GetBytes(data, "items.0.unit_price").Raw)
	assert.False(t, gjson.GetBytes(data, "items.0.product").Exists())

	o.Items[0].Product = &models.Product{Name: "Widget", Price: decimal.RequireFromString("9.99"), Quantity: 3}
	o.Items[0].Product.ID = 7
	data, err = json.Marshal(resource.One(resources.Order, o))
	require.NoError(t, err)
	assert.EqualValues(t, 7, gjson.GetBytes(data, "items.0.product.id").Int())
	assert.Equal(t, "Widget", gjson.GetBytes(data, "items.0.product.name").String())
	assert.Equal(t, "9.99", gjson.GetBytes(data, "items.0.product.price").Raw)
	assert.True(t, gjson.GetBytes(data, "items.0.product.in_stock").Bool())

	data, err = json.Marshal(resource.One(resources.Order, models.Order{}))
	require.NoError(t, err)
	assert.Equal(t, "[]", gjson.GetBytes(data, "items").Raw)
}
