package grpcsvc

import (
	"time"

	marketplacev1 "github.com/vladislavdragonenkov/marketplace/api/marketplace/v1"
	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

func toAPIUser(u domain.User) *marketplacev1.User {
	return &marketplacev1.User{
		ID:         u.ID,
		Name:       u.Name,
		Surname:    u.Surname,
		Email:      u.Email,
		Role:       string(u.Role),
		ListingIDs: nonNilIDs(u.ListingIDs),
		OrderIDs:   nonNilIDs(u.OrderIDs),
		CreatedAt:  u.CreatedAt.UTC(),
	}
}

func toAPIProduct(p domain.Product) *marketplacev1.Product {
	return &marketplacev1.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		CreatedAt:   p.CreatedAt.UTC(),
	}
}

func toAPIListing(l domain.Listing) *marketplacev1.Listing {
	return &marketplacev1.Listing{
		ID:         l.ID,
		ProductID:  l.ProductID,
		SellerID:   l.SellerID,
		PriceMinor: l.PriceMinor,
		Stock:      l.Stock,
		Active:     l.Active,
		CreatedAt:  l.CreatedAt.UTC(),
	}
}

func toAPIListings(listings []domain.Listing) []*marketplacev1.Listing {
	result := make([]*marketplacev1.Listing, 0, len(listings))
	for _, l := range listings {
		result = append(result, toAPIListing(l))
	}
	return result
}

func toAPIOrder(o domain.Order) *marketplacev1.Order {
	lines := make([]marketplacev1.OrderLine, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, marketplacev1.OrderLine{
			ListingID:  line.ListingID,
			ProductID:  line.ProductID,
			Qty:        line.Qty,
			PriceMinor: line.PriceMinor,
		})
	}
	return &marketplacev1.Order{
		ID:                o.ID,
		Lines:             lines,
		Status:            string(o.Status),
		BuyerID:           o.BuyerID,
		SellerID:          o.SellerID,
		CancelRequestedBy: o.CancelRequestedBy,
		AmountMinor:       o.AmountMinor,
		CreatedAt:         o.CreatedAt.UTC(),
		UpdatedAt:         o.UpdatedAt.UTC(),
	}
}

func toAPIOrders(orders []domain.Order) []*marketplacev1.Order {
	result := make([]*marketplacev1.Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, toAPIOrder(o))
	}
	return result
}

func toAPITimeline(events []domain.TimelineEvent) []*marketplacev1.TimelineEvent {
	result := make([]*marketplacev1.TimelineEvent, 0, len(events))
	for _, ev := range events {
		result = append(result, &marketplacev1.TimelineEvent{
			Type:       ev.Type,
			Actor:      ev.Actor,
			Reason:     ev.Reason,
			OccurredAt: ev.Occurred.UTC().Truncate(time.Microsecond),
		})
	}
	return result
}

func toDomainItems(items []marketplacev1.LineItem) []domain.LineItem {
	result := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		result = append(result, domain.LineItem{ListingID: item.ListingID, Qty: item.Qty})
	}
	return result
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
