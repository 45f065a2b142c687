package domain

import (
	"fmt"
	"sync"
)

// Inventory owns every part and product of a session. Both sequences keep
// insertion order; getters return snapshots, never the live slices.
type Inventory struct {
	mu            sync.RWMutex
	parts         []*Part
	products      []*Product
	lastPartID    int
	lastProductID int
}

func NewInventory() *Inventory {
	return &Inventory{}
}

func (inv *Inventory) AddPart(part *Part) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.parts = append(inv.parts, part)
	if part.ID > inv.lastPartID {
		inv.lastPartID = part.ID
	}
}

func (inv *Inventory) AddProduct(product *Product) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.products = append(inv.products, product)
	if product.ID > inv.lastProductID {
		inv.lastProductID = product.ID
	}
}

// NextPartID reserves a part id. Ids are never reissued, even after deletes.
func (inv *Inventory) NextPartID() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.lastPartID++
	return inv.lastPartID
}

func (inv *Inventory) NextProductID() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.lastProductID++
	return inv.lastProductID
}

// LookupPart returns the first part with id, or nil.
func (inv *Inventory) LookupPart(id int) *Part {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	for _, part := range inv.parts {
		if part.ID == id {
			return part
		}
	}
	return nil
}

// LookupProduct returns the first product with id, or nil.
func (inv *Inventory) LookupProduct(id int) *Product {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	for _, product := range inv.products {
		if product.ID == id {
			return product
		}
	}
	return nil
}

func (inv *Inventory) LookupPartsByName(name string) []*Part {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	matches := []*Part{}
	for _, part := range inv.parts {
		if part.Name == name {
			matches = append(matches, part)
		}
	}
	return matches
}

func (inv *Inventory) LookupProductsByName(name string) []*Product {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	matches := []*Product{}
	for _, product := range inv.products {
		if product.Name == name {
			matches = append(matches, product)
		}
	}
	return matches
}

// UpdatePart replaces the part at list position index.
func (inv *Inventory) UpdatePart(index int, part *Part) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if index < 0 || index >= len(inv.parts) {
		return fmt.Errorf("%w: part index %d out of range [0,%d)", ErrPrecondition, index, len(inv.parts))
	}
	inv.parts[index] = part
	if part.ID > inv.lastPartID {
		inv.lastPartID = part.ID
	}
	return nil
}

// UpdateProduct replaces the product at list position index.
func (inv *Inventory) UpdateProduct(index int, product *Product) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if index < 0 || index >= len(inv.products) {
		return fmt.Errorf("%w: product index %d out of range [0,%d)", ErrPrecondition, index, len(inv.products))
	}
	inv.products[index] = product
	if product.ID > inv.lastProductID {
		inv.lastProductID = product.ID
	}
	return nil
}

func (inv *Inventory) DeletePart(part *Part) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for i, candidate := range inv.parts {
		if candidate == part {
			inv.parts = append(inv.parts[:i], inv.parts[i+1:]...)
			return true
		}
	}
	return false
}

// DeleteProduct removes product unconditionally. Refusing products that
// still have associated parts is done by the workflow layer.
func (inv *Inventory) DeleteProduct(product *Product) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for i, candidate := range inv.products {
		if candidate == product {
			inv.products = append(inv.products[:i], inv.products[i+1:]...)
			return true
		}
	}
	return false
}

func (inv *Inventory) PartIndex(part *Part) int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	for i, candidate := range inv.parts {
		if candidate == part {
			return i
		}
	}
	return -1
}

func (inv *Inventory) AllParts() []*Part {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	out := make([]*Part, len(inv.parts))
	copy(out, inv.parts)
	return out
}

func (inv *Inventory) AllProducts() []*Product {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	out := make([]*Product, len(inv.products))
	copy(out, inv.products)
	return out
}
