package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rl1809/parts-inventory/internal/core/domain"
)

// matches is the search rule shared by every list: the name contains the
// query ignoring case, or the decimal id contains it verbatim. An empty
// query matches everything.
func matches(name string, id int, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(query)) ||
		strings.Contains(strconv.Itoa(id), query)
}

// SearchParts returns a freshly built list of matching parts in inventory
// order.
func (s *InventoryService) SearchParts(query string) []domain.PartRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.PartRecord{}
	for _, part := range s.inv.AllParts() {
		if matches(part.Name, part.ID, query) {
			out = append(out, part.Record())
		}
	}
	return out
}

func (s *InventoryService) SearchProducts(query string) []domain.ProductRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.ProductRecord{}
	for _, product := range s.inv.AllProducts() {
		if matches(product.Name, product.ID, query) {
			out = append(out, product.Record())
		}
	}
	return out
}

// AvailableParts searches the parts that are not yet associated with
// product productID.
func (s *InventoryService) AvailableParts(productID int, query string) ([]domain.PartRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product := s.inv.LookupProduct(productID)
	if product == nil {
		return nil, fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
	}

	out := []domain.PartRecord{}
	for _, part := range s.inv.AllParts() {
		if product.AssociatedPart(part.ID) != nil {
			continue
		}
		if matches(part.Name, part.ID, query) {
			out = append(out, part.Record())
		}
	}
	return out, nil
}
