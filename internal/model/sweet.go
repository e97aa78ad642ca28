package model

import "time"

// MaxQuantity is the largest stock a catalog entry can hold. It matches the
// 32-bit quantity column of every supported database.
const MaxQuantity = 1<<31 - 1

// Sweet is a purchasable catalog entry. Quantity is the units in stock and
// never goes negative.
type Sweet struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description" db:"description"`
	Category    string     `json:"category" db:"category"`
	Price       float64    `json:"price" db:"price"`
	Quantity    int        `json:"quantity" db:"quantity"`
	ImageURL    *string    `json:"image_url" db:"image_url"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`
}

// SweetInput holds the fields of a new catalog entry.
type SweetInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description"`
	Category    string  `json:"category" validate:"required,min=1,max=50"`
	Price       float64 `json:"price" validate:"gt=0"`
	Quantity    int     `json:"quantity" validate:"gte=0,lte=2147483647"`
	ImageURL    *string `json:"image_url"`
}

// Validate checks the field constraints of a catalog entry.
func (in *SweetInput) Validate() error {
	return validateStruct(in)
}

// Input returns the editable fields of s.
func (s *Sweet) Input() SweetInput {
	return SweetInput{
		Name:        s.Name,
		Description: s.Description,
		Category:    s.Category,
		Price:       s.Price,
		Quantity:    s.Quantity,
		ImageURL:    s.ImageURL,
	}
}

// SweetUpdate is a partial update. Fields left unset keep their stored value.
type SweetUpdate struct {
	Name        Optional[string]  `json:"name"`
	Description Optional[*string] `json:"description"`
	Category    Optional[string]  `json:"category"`
	Price       Optional[float64] `json:"price"`
	Quantity    Optional[int]     `json:"quantity"`
	ImageURL    Optional[*string] `json:"image_url"`
}

// Empty reports whether no field is set.
func (u *SweetUpdate) Empty() bool {
	return !u.Name.Set && !u.Description.Set && !u.Category.Set &&
		!u.Price.Set && !u.Quantity.Set && !u.ImageURL.Set
}

// Merge applies the set fields of u on top of in and returns the result.
func (u *SweetUpdate) Merge(in SweetInput) SweetInput {
	u.Name.Apply(&in.Name)
	u.Description.Apply(&in.Description)
	u.Category.Apply(&in.Category)
	u.Price.Apply(&in.Price)
	u.Quantity.Apply(&in.Quantity)
	u.ImageURL.Apply(&in.ImageURL)
	return in
}

// SweetFilter narrows a catalog search. Nil fields impose no constraint and
// the remaining ones are combined with AND.
type SweetFilter struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	MaxPrice *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"`
}

// Validate checks the price bounds of the filter.
func (f *SweetFilter) Validate() error {
	return validateStruct(f)
}

// StockChange is the body of the purchase and restock endpoints.
type StockChange struct {
	Quantity int `json:"quantity" validate:"gt=0,lte=2147483647"`
}

// Validate checks that the quantity is positive and at most MaxQuantity.
func (c *StockChange) Validate() error {
	return validateStruct(c)
}

// InventoryResponse reports the outcome of a purchase or restock.
type InventoryResponse struct {
	Message     string `json:"message"`
	SweetID     int64  `json:"sweet_id"`
	NewQuantity int    `json:"new_quantity"`
}
