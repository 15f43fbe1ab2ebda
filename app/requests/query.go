package requests

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/marketplace/pkg/validate"
)

// queryReader collects type errors while reading url.Values.
type queryReader struct {
	v    url.Values
	errs map[string]string
}

func newQueryReader(v url.Values) *queryReader {
	return &queryReader{v: v, errs: make(map[string]string)}
}

func (q *queryReader) int(key string) int {
	raw := q.v.Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.errs[key] = fmt.Sprintf("The %s field must be an integer.", key)
	}
	return n
}

func (q *queryReader) uint(key string) uint {
	raw := q.v.Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		q.errs[key] = fmt.Sprintf("The %s field must be a positive integer.", key)
	}
	return uint(n)
}

func (q *queryReader) bool(key string) *bool {
	raw := q.v.Get(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		q.errs[key] = fmt.Sprintf("The %s field must be true or false.", key)
		return nil
	}
	return &b
}

func (q *queryReader) decimal(key string) *decimal.Decimal {
	raw := q.v.Get(key)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		q.errs[key] = fmt.Sprintf("The %s field must be a number.", key)
		return nil
	}
	return &d
}

// finish runs struct validation unless a field already failed to parse.
func (q *queryReader) finish(dest any) map[string]string {
	if len(q.errs) > 0 {
		return q.errs
	}
	return validate.Struct(dest)
}

// ParseProductQuery reads the product listing filters.
func ParseProductQuery(v url.Values) (ProductQuery, map[string]string) {
	q := newQueryReader(v)
	out := ProductQuery{
		SellerID: q.uint("seller_id"),
		InStock:  q.bool("in_stock"),
		MinPrice: q.decimal("min_price"),
		MaxPrice: q.decimal("max_price"),
		Q:        v.Get("q"),
		Limit:    q.int("limit"),
		Offset:   q.int("offset"),
	}
	errs := q.finish(&out)
	if len(errs) == 0 && out.MinPrice != nil && out.MaxPrice != nil && out.MinPrice.GreaterThan(*out.MaxPrice) {
		errs["min_price"] = "The min_price must not be greater than max_price."
	}
	return out, errs
}

// ParseOrderQuery reads the order listing filters.
func ParseOrderQuery(v url.Values) (OrderQuery, map[string]string) {
	q := newQueryReader(v)
	out := OrderQuery{
		Status: v.Get("status"),
		Limit:  q.int("limit"),
		Offset: q.int("offset"),
	}
	if all := q.bool("all"); all != nil {
		out.All = *all
	}
	return out, q.finish(&out)
}

// ParseUserQuery reads the admin user listing window.
func ParseUserQuery(v url.Values) (UserQuery, map[string]string) {
	q := newQueryReader(v)
	out := UserQuery{Limit: q.int("limit"), Offset: q.int("offset")}
	return out, q.finish(&out)
}
