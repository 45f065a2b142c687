package domain

import (
	"fmt"
	"strings"
)

type PartKind string

const (
	PartKindInHouse    PartKind = "in_house"
	PartKindOutsourced PartKind = "outsourced"
)

func (k PartKind) Valid() bool {
	return k == PartKindInHouse || k == PartKindOutsourced
}

// Part is a plain data holder. Bounds consistency (min <= stock <= max) is
// checked by the validation workflow before a save, never on assignment.
type Part struct {
	ID    int
	Name  string
	Price float64
	Stock int
	Min   int
	Max   int

	Kind PartKind
	// MachineID is set for in-house parts only.
	MachineID int
	// CompanyName is set for outsourced parts only.
	CompanyName string
}

func NewInHousePart(id int, name string, price float64, stock, min, max, machineID int) (*Part, error) {
	if err := checkBase(name, price, stock); err != nil {
		return nil, err
	}
	return &Part{
		ID:        id,
		Name:      name,
		Price:     price,
		Stock:     stock,
		Min:       min,
		Max:       max,
		Kind:      PartKindInHouse,
		MachineID: machineID,
	}, nil
}

func NewOutsourcedPart(id int, name string, price float64, stock, min, max int, companyName string) (*Part, error) {
	if err := checkBase(name, price, stock); err != nil {
		return nil, err
	}
	if strings.TrimSpace(companyName) == "" {
		return nil, fmt.Errorf("%w: company name required", ErrPrecondition)
	}
	return &Part{
		ID:          id,
		Name:        name,
		Price:       price,
		Stock:       stock,
		Min:         min,
		Max:         max,
		Kind:        PartKindOutsourced,
		CompanyName: companyName,
	}, nil
}

func checkBase(name string, price float64, stock int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name required", ErrPrecondition)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrPrecondition)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", ErrPrecondition)
	}
	return nil
}
