package marketplace

import (
	"context"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/messaging/kafka"
)

// CreateProductInput — параметры нового товара.
type CreateProductInput struct {
	Name        string
	Description string
	Category    domain.Category
}

// CreateListingInput — параметры новой публикации.
type CreateListingInput struct {
	ProductID  int64
	PriceMinor int64
	Stock      int32
}

// CreateProduct создаёт товар от имени вызывающего продавца.
func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	var product domain.Product
	err := s.run(ctx, "create_product", modeWrite, true, func(tx domain.Tx, callerID string, fx *effects) error {
		var err error
		product, err = s.catalog.CreateProduct(tx, callerID, in.Name, in.Description, in.Category)
		if err != nil {
			return err
		}
		fx.field("product_id", product.ID)
		msg, err := kafka.NewProductMessage(product, callerID)
		return s.enqueue(tx, fx, msg, err)
	})
	if err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// CreateListing публикует товар от имени вызывающего продавца.
func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (domain.Listing, error) {
	var listing domain.Listing
	err := s.run(ctx, "create_listing", modeWrite, true, func(tx domain.Tx, callerID string, fx *effects) error {
		var err error
		listing, err = s.catalog.CreateListing(tx, callerID, in.ProductID, in.PriceMinor, in.Stock)
		if err != nil {
			return err
		}
		fx.field("listing_id", listing.ID)
		fx.field("product_id", listing.ProductID)
		msg, err := kafka.NewListingMessage(listing)
		return s.enqueue(tx, fx, msg, err)
	})
	if err != nil {
		return domain.Listing{}, err
	}
	return listing, nil
}

// ListActiveListings возвращает все публикации в порядке создания.
// Идентичность вызывающей стороны не требуется.
func (s *Service) ListActiveListings(ctx context.Context) ([]domain.Listing, error) {
	var listings []domain.Listing
	err := s.run(ctx, "list_listings", modeRead, false, func(tx domain.Tx, _ string, fx *effects) error {
		var err error
		listings, err = s.catalog.ListActiveListings(tx)
		fx.field("count", len(listings))
		return err
	})
	return listings, err
}

// MyListings возвращает публикации вызывающего продавца.
func (s *Service) MyListings(ctx context.Context) ([]domain.Listing, error) {
	var listings []domain.Listing
	err := s.run(ctx, "listings_of", modeRead, true, func(tx domain.Tx, callerID string, _ *effects) error {
		var err error
		listings, err = s.catalog.ListingsOf(tx, callerID)
		return err
	})
	return listings, err
}

// Product возвращает товар по идентификатору.
func (s *Service) Product(ctx context.Context, id int64) (domain.Product, error) {
	var product domain.Product
	err := s.run(ctx, "get_product", modeRead, false, func(tx domain.Tx, _ string, _ *effects) error {
		var err error
		product, err = s.catalog.Product(tx, id)
		return err
	})
	return product, err
}
