package domain

// Product is a purchasable top-up item. Prices are whole units: kyat for
// PriceMMK, storefront credits for PriceCr.
type Product struct {
	ID        string `json:"id"`
	Operator  string `json:"operator"`
	Category  string `json:"category"`
	Name      string `json:"name"`
	PriceMMK  int64  `json:"priceMMK"`
	PriceCr   int64  `json:"priceCr"`
	Available bool   `json:"available"`
}

// Catalog groups products by operator, then by category.
type Catalog map[string]map[string][]Product

// GroupCatalog builds the operator → category view of products, preserving
// the input order inside each category.
func GroupCatalog(products []Product) Catalog {
	out := make(Catalog)
	for _, p := range products {
		byCategory, ok := out[p.Operator]
		if !ok {
			byCategory = make(map[string][]Product)
			out[p.Operator] = byCategory
		}
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}
	return out
}
