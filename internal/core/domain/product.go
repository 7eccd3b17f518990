package domain

// Product is the catalog view used to annotate cart lines for display.
type Product struct {
	ID          string  `json:"id"          bson:"_id"`
	Name        string  `json:"name"        bson:"name"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price"       bson:"price"`
	Image       string  `json:"image"       bson:"image"`
	CategoryID  string  `json:"categoryId"  bson:"categoryId"`
	Stock       int     `json:"stock"       bson:"stock"`
}

// AnnotatedLine pairs a cart line with its catalog product.
type AnnotatedLine struct {
	CartLine
	Product  Product `json:"product"`
	Subtotal float64 `json:"subtotal"`
}

// Annotate joins cart lines with their products. Lines whose product is not
// in the catalog are dropped.
func Annotate(cart Cart, products []Product) []AnnotatedLine {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]AnnotatedLine, 0, len(cart))
	for _, l := range cart {
		p, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		out = append(out, AnnotatedLine{CartLine: l, Product: p, Subtotal: p.Price * float64(l.Quantity)})
	}
	return out
}

// CartTotal prices the cart against the catalog. Unknown products count as zero.
func CartTotal(cart Cart, products []Product) float64 {
	total := 0.0
	for _, l := range Annotate(cart, products) {
		total += l.Subtotal
	}
	return total
}
