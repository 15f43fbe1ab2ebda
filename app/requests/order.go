package requests

type OrderLine struct {
	ProductID uint `json:"product_id" validate:"required,gt=0"`
	Quantity  int  `json:"quantity"   validate:"required,gt=0,lte=10000"`
}

type PlaceOrder struct {
	DeliveryAddress string      `json:"delivery_address" validate:"required,min=10,max=255"`
	Items           []OrderLine `json:"items"            validate:"required,min=1,max=100,dive"`
}

// Merged folds repeated product lines into one by summing quantities,
// keeping first-seen order.
func (p PlaceOrder) Merged() []OrderLine {
	idx := make(map[uint]int, len(p.Items))
	out := make([]OrderLine, 0, len(p.Items))
	for _, it := range p.Items {
		if i, ok := idx[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

type UpdateOrderStatus struct {
	Status string `json:"status" validate:"required,oneof=created shipped completed cancelled"`
}

// OrderQuery filters the order listing. All is honoured for staff only.
type OrderQuery struct {
	All    bool   `json:"all"`
	Status string `json:"status" validate:"omitempty,oneof=created shipped completed cancelled"`
	Limit  int    `json:"limit"  validate:"gte=0,lte=100"`
	Offset int    `json:"offset" validate:"gte=0"`
}
