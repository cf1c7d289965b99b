// Package catalog управляет товарами и публикациями продавцов.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/idgen"
	"github.com/vladislavdragonenkov/marketplace/internal/service/identity"
)

// Catalog создаёт товары и публикации и списывает остатки по заказам.
type Catalog struct {
	identity *identity.Registry
	now      func() time.Time
}

// New создаёт каталог поверх реестра участников.
func New(registry *identity.Registry, now func() time.Time) *Catalog {
	if now == nil {
		now = time.Now
	}
	return &Catalog{identity: registry, now: now}
}

// CreateProduct регистрирует товар от имени продавца.
func (c *Catalog) CreateProduct(tx domain.Tx, seller, name, description string, category domain.Category) (domain.Product, error) {
	if _, err := c.identity.RequireSeller(tx, seller); err != nil {
		return domain.Product{}, err
	}
	if !category.Valid() {
		return domain.Product{}, domain.ErrInvalidCategory
	}

	id, err := idgen.Next(tx, domain.CounterProduct)
	if err != nil {
		return domain.Product{}, err
	}

	product := domain.Product{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Description: description,
		Category:    category,
		CreatedAt:   c.now().UTC(),
	}
	if err := tx.PutProduct(product); err != nil {
		return domain.Product{}, fmt.Errorf("save product %d: %w", id, err)
	}
	return product, nil
}

// CreateListing публикует товар по цене priceMinor с остатком stock.
func (c *Catalog) CreateListing(tx domain.Tx, seller string, productID, priceMinor int64, stock int32) (domain.Listing, error) {
	user, err := c.identity.RequireSeller(tx, seller)
	if err != nil {
		return domain.Listing{}, err
	}
	if _, err := tx.Product(productID); err != nil {
		return domain.Listing{}, err
	}
	if priceMinor < 0 {
		return domain.Listing{}, domain.ErrInvalidPrice
	}
	if stock <= 0 {
		return domain.Listing{}, domain.ErrInsufficientStock
	}

	id, err := idgen.Next(tx, domain.CounterListing)
	if err != nil {
		return domain.Listing{}, err
	}

	now := c.now().UTC()
	listing := domain.Listing{
		ID:         id,
		ProductID:  productID,
		SellerID:   user.ID,
		PriceMinor: priceMinor,
		Stock:      stock,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.PutListing(listing); err != nil {
		return domain.Listing{}, fmt.Errorf("save listing %d: %w", id, err)
	}

	user.ListingIDs = append(user.ListingIDs, id)
	user.UpdatedAt = now
	if err := tx.PutUser(user); err != nil {
		return domain.Listing{}, fmt.Errorf("save seller %s: %w", user.ID, err)
	}
	return listing, nil
}

// DecrementStock списывает qty единиц с публикации. При нехватке остатка
// возвращает domain.ErrInsufficientStock и ничего не меняет.
func (c *Catalog) DecrementStock(tx domain.Tx, listingID int64, qty int32) (domain.Listing, error) {
	listing, err := tx.Listing(listingID)
	if err != nil {
		return domain.Listing{}, err
	}
	if err := listing.Take(qty); err != nil {
		return domain.Listing{}, fmt.Errorf("listing %d: %w", listingID, err)
	}
	listing.UpdatedAt = c.now().UTC()
	if err := tx.PutListing(listing); err != nil {
		return domain.Listing{}, fmt.Errorf("save listing %d: %w", listingID, err)
	}
	return listing, nil
}

// Listing возвращает публикацию по идентификатору.
func (c *Catalog) Listing(tx domain.Tx, id int64) (domain.Listing, error) {
	return tx.Listing(id)
}

// Product возвращает товар по идентификатору.
func (c *Catalog) Product(tx domain.Tx, id int64) (domain.Product, error) {
	return tx.Product(id)
}

// ListActiveListings возвращает все публикации в порядке создания.
// Фильтр по флагу Active зарезервирован: сейчас активны все сохранённые публикации.
func (c *Catalog) ListActiveListings(tx domain.Tx) ([]domain.Listing, error) {
	return tx.Listings()
}

// ListingsOf возвращает публикации продавца в порядке создания.
func (c *Catalog) ListingsOf(tx domain.Tx, seller string) ([]domain.Listing, error) {
	user, err := c.identity.RequireSeller(tx, seller)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Listing, 0, len(user.ListingIDs))
	for _, id := range user.ListingIDs {
		listing, err := tx.Listing(id)
		if err != nil {
			return nil, fmt.Errorf("listing %d of %s: %w", id, seller, err)
		}
		result = append(result, listing)
	}
	return result, nil
}
