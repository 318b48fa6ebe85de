package product

// Product is a sellable catalog item. Name is a translation key.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Stock     int    `json:"stock"`
	StockUnit string `json:"stockUnit"`
	ImageURL  string `json:"imageUrl"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Input carries the editable fields of a product.
type Input struct {
	Name      string `json:"name"      validate:"required,max=200"`
	Price     string `json:"price"     validate:"required,max=32"`
	Stock     int    `json:"stock"     validate:"gte=0"`
	StockUnit string `json:"stockUnit" validate:"required,max=32"`
	ImageURL  string `json:"imageUrl"`
}

// ToModel builds a product with the given id.
func (in Input) ToModel(id string) Product {
	return Product{
		ID:        id,
		Name:      in.Name,
		Price:     in.Price,
		Stock:     in.Stock,
		StockUnit: in.StockUnit,
		ImageURL:  in.ImageURL,
	}
}

// Deduction is a stock decrement requested by an accepted order.
type Deduction struct {
	ProductID string
	Quantity  int
}
