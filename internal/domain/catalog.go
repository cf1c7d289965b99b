package domain

import "time"

// Category — закрытый перечень категорий товаров.
type Category string

const (
	CategoryCleaning   Category = "cleaning"
	CategoryTechnology Category = "technology"
	CategoryMusic      Category = "music"
	CategoryClothing   Category = "clothing"
	CategoryFootwear   Category = "footwear"
	CategoryOther      Category = "other"
)

// Valid проверяет, что категория входит в перечень.
func (c Category) Valid() bool {
	switch c {
	case CategoryCleaning, CategoryTechnology, CategoryMusic,
		CategoryClothing, CategoryFootwear, CategoryOther:
		return true
	default:
		return false
	}
}

// Product описывает товар. Товар принадлежит системе, а не продавцу,
// и может использоваться в нескольких публикациях.
type Product struct {
	ID          int64
	Name        string
	Description string
	Category    Category
	CreatedAt   time.Time
}

// Listing — предложение продавца: товар, цена и доступный остаток.
type Listing struct {
	ID        int64
	ProductID int64
	SellerID  string
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	Stock      int32
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasStock сообщает, хватает ли остатка на qty единиц.
func (l Listing) HasStock(qty int32) bool {
	return qty >= 0 && l.Stock >= qty
}

// Take уменьшает остаток на qty. При нехватке остатка публикация не меняется.
func (l *Listing) Take(qty int32) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if !l.HasStock(qty) {
		return ErrInsufficientStock
	}
	l.Stock -= qty
	return nil
}
