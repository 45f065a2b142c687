package domain

import "fmt"

// PartRecord is a flat copy of a Part, safe to hand across goroutines and
// to encode.
type PartRecord struct {
	ID          int      `json:"id" yaml:"id"`
	Kind        PartKind `json:"kind" yaml:"kind"`
	Name        string   `json:"name" yaml:"name"`
	Price       float64  `json:"price" yaml:"price"`
	Stock       int      `json:"stock" yaml:"stock"`
	Min         int      `json:"min" yaml:"min"`
	Max         int      `json:"max" yaml:"max"`
	MachineID   *int     `json:"machine_id,omitempty" yaml:"machine_id,omitempty"`
	CompanyName string   `json:"company_name,omitempty" yaml:"company_name,omitempty"`
}

type ProductRecord struct {
	ID      int     `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	Price   float64 `json:"price" yaml:"price"`
	Stock   int     `json:"stock" yaml:"stock"`
	Min     int     `json:"min" yaml:"min"`
	Max     int     `json:"max" yaml:"max"`
	PartIDs []int   `json:"part_ids" yaml:"part_ids"`
}

// Snapshot is a full copy of an Inventory. LastPartID and LastProductID are
// the id high-water marks, kept so ids stay unused after the highest entity
// is deleted.
type Snapshot struct {
	Parts         []PartRecord    `json:"parts" yaml:"parts"`
	Products      []ProductRecord `json:"products" yaml:"products"`
	LastPartID    int             `json:"last_part_id,omitempty" yaml:"last_part_id,omitempty"`
	LastProductID int             `json:"last_product_id,omitempty" yaml:"last_product_id,omitempty"`
}

func (p *Part) Record() PartRecord {
	r := PartRecord{
		ID:    p.ID,
		Kind:  p.Kind,
		Name:  p.Name,
		Price: p.Price,
		Stock: p.Stock,
		Min:   p.Min,
		Max:   p.Max,
	}
	switch p.Kind {
	case PartKindInHouse:
		machineID := p.MachineID
		r.MachineID = &machineID
	case PartKindOutsourced:
		r.CompanyName = p.CompanyName
	}
	return r
}

// Part rebuilds a Part through the variant constructors.
func (r PartRecord) Part() (*Part, error) {
	switch r.Kind {
	case PartKindInHouse:
		if r.MachineID == nil {
			return nil, fmt.Errorf("%w: part %d: machine id required", ErrPrecondition, r.ID)
		}
		return NewInHousePart(r.ID, r.Name, r.Price, r.Stock, r.Min, r.Max, *r.MachineID)
	case PartKindOutsourced:
		return NewOutsourcedPart(r.ID, r.Name, r.Price, r.Stock, r.Min, r.Max, r.CompanyName)
	default:
		return nil, fmt.Errorf("%w: part %d: unknown kind %q", ErrPrecondition, r.ID, r.Kind)
	}
}

func (p *Product) Record() ProductRecord {
	ids := make([]int, 0, len(p.associatedParts))
	for _, part := range p.associatedParts {
		ids = append(ids, part.ID)
	}
	return ProductRecord{
		ID:      p.ID,
		Name:    p.Name,
		Price:   p.Price,
		Stock:   p.Stock,
		Min:     p.Min,
		Max:     p.Max,
		PartIDs: ids,
	}
}

func (inv *Inventory) Snapshot() Snapshot {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	s := Snapshot{
		Parts:         make([]PartRecord, 0, len(inv.parts)),
		Products:      make([]ProductRecord, 0, len(inv.products)),
		LastPartID:    inv.lastPartID,
		LastProductID: inv.lastProductID,
	}
	for _, part := range inv.parts {
		s.Parts = append(s.Parts, part.Record())
	}
	for _, product := range inv.products {
		s.Products = append(s.Products, product.Record())
	}
	return s
}

// Restore appends the snapshot's parts and products. Ids must be unique
// within the snapshot and unused in the inventory, and product part ids must
// resolve to parts of the snapshot or already in the inventory. The snapshot
// is applied whole or not at all.
func (inv *Inventory) Restore(s Snapshot) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	known := make(map[int]*Part, len(inv.parts)+len(s.Parts))
	for _, part := range inv.parts {
		known[part.ID] = part
	}
	parts := make([]*Part, 0, len(s.Parts))
	for _, r := range s.Parts {
		if _, dup := known[r.ID]; dup {
			return fmt.Errorf("restore part %d: %w: duplicate id", r.ID, ErrPrecondition)
		}
		part, err := r.Part()
		if err != nil {
			return fmt.Errorf("restore part %d: %w", r.ID, err)
		}
		known[part.ID] = part
		parts = append(parts, part)
	}

	taken := make(map[int]bool, len(inv.products)+len(s.Products))
	for _, product := range inv.products {
		taken[product.ID] = true
	}
	products := make([]*Product, 0, len(s.Products))
	for _, r := range s.Products {
		if taken[r.ID] {
			return fmt.Errorf("restore product %d: %w: duplicate id", r.ID, ErrPrecondition)
		}
		product, err := NewProduct(r.ID, r.Name, r.Price, r.Stock, r.Min, r.Max)
		if err != nil {
			return fmt.Errorf("restore product %d: %w", r.ID, err)
		}
		for _, id := range r.PartIDs {
			part, ok := known[id]
			if !ok {
				return fmt.Errorf("restore product %d: part %d: %w", r.ID, id, ErrNotFound)
			}
			product.AddAssociatedPart(part)
		}
		taken[r.ID] = true
		products = append(products, product)
	}

	inv.parts = append(inv.parts, parts...)
	inv.products = append(inv.products, products...)
	inv.lastPartID = max(inv.lastPartID, s.LastPartID)
	for _, part := range parts {
		inv.lastPartID = max(inv.lastPartID, part.ID)
	}
	inv.lastProductID = max(inv.lastProductID, s.LastProductID)
	for _, product := range products {
		inv.lastProductID = max(inv.lastProductID, product.ID)
	}
	return nil
}
