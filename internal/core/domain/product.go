package domain

type Product struct {
	ID    int
	Name  string
	Price float64
	Stock int
	Min   int
	Max   int

	associatedParts []*Part
}

func NewProduct(id int, name string, price float64, stock, min, max int) (*Product, error) {
	if err := checkBase(name, price, stock); err != nil {
		return nil, err
	}
	return &Product{
		ID:    id,
		Name:  name,
		Price: price,
		Stock: stock,
		Min:   min,
		Max:   max,
	}, nil
}

// AddAssociatedPart appends part unless that exact instance is already
// associated. Rejecting a different instance with the same id is the
// caller's job.
func (p *Product) AddAssociatedPart(part *Part) {
	if part == nil || p.indexOf(part) >= 0 {
		return
	}
	p.associatedParts = append(p.associatedParts, part)
}

// DeleteAssociatedPart removes part by identity. An instance that merely
// shares an id with an associated part is not removed.
func (p *Product) DeleteAssociatedPart(part *Part) bool {
	i := p.indexOf(part)
	if i < 0 {
		return false
	}
	p.associatedParts = append(p.associatedParts[:i], p.associatedParts[i+1:]...)
	return true
}

// ReplaceAssociatedPart swaps old for replacement at the same position.
func (p *Product) ReplaceAssociatedPart(old, replacement *Part) bool {
	i := p.indexOf(old)
	if i < 0 || replacement == nil {
		return false
	}
	p.associatedParts[i] = replacement
	return true
}

// AllAssociatedParts returns a snapshot; the slice is never aliased with
// the product's own.
func (p *Product) AllAssociatedParts() []*Part {
	out := make([]*Part, len(p.associatedParts))
	copy(out, p.associatedParts)
	return out
}

// AssociatedPart looks an associated part up by id.
func (p *Product) AssociatedPart(id int) *Part {
	for _, part := range p.associatedParts {
		if part.ID == id {
			return part
		}
	}
	return nil
}

func (p *Product) HasAssociatedParts() bool {
	return len(p.associatedParts) > 0
}

func (p *Product) indexOf(part *Part) int {
	for i, candidate := range p.associatedParts {
		if candidate == part {
			return i
		}
	}
	return -1
}
