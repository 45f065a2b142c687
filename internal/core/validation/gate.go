package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rl1809/parts-inventory/internal/core/domain"
)

const (
	SummaryIncomplete = "Please complete all fields."
	SummaryUnresolved = "Please resolve any error messages."
)

// Field order decides message order.
type PartDraft struct {
	Name        string          `validate:"required" label:"name"`
	Stock       *int            `validate:"required,gte=0" label:"inventory"`
	Min         *int            `validate:"required" label:"minimum"`
	Max         *int            `validate:"required" label:"maximum"`
	Price       *float64        `validate:"required,gte=0" label:"price"`
	Kind        domain.PartKind `validate:"oneof=in_house outsourced" label:"source"`
	MachineID   *int            `validate:"required_if=Kind in_house" label:"machine ID"`
	CompanyName string          `validate:"required_if=Kind outsourced" label:"company name"`
}

func (d PartDraft) Bounds() Bounds {
	return Bounds{Stock: d.Stock, Min: d.Min, Max: d.Max}
}

type ProductDraft struct {
	Name  string   `validate:"required" label:"name"`
	Stock *int     `validate:"required,gte=0" label:"inventory"`
	Min   *int     `validate:"required" label:"minimum"`
	Max   *int     `validate:"required" label:"maximum"`
	Price *float64 `validate:"required,gte=0" label:"price"`
}

func (d ProductDraft) Bounds() Bounds {
	return Bounds{Stock: d.Stock, Min: d.Min, Max: d.Max}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// CheckPart is the save gate for a part edit. Missing or malformed fields
// are reported together and take precedence over an invalid bounds state.
func CheckPart(d PartDraft, current State) error {
	d.Name = strings.TrimSpace(d.Name)
	d.CompanyName = strings.TrimSpace(d.CompanyName)
	if problems := collect("part", d); len(problems) > 0 {
		return &domain.ValidationError{Summary: SummaryIncomplete, Problems: problems}
	}
	return checkState(current, d.Bounds())
}

// CheckProduct is the save gate for a product edit.
func CheckProduct(d ProductDraft, current State) error {
	d.Name = strings.TrimSpace(d.Name)
	if problems := collect("product", d); len(problems) > 0 {
		return &domain.ValidationError{Summary: SummaryIncomplete, Problems: problems}
	}
	return checkState(current, d.Bounds())
}

// checkState blocks on the caller's state, and re-evaluates a valid one in
// case the caller never ran the transitions.
func checkState(current State, b Bounds) error {
	state := current
	if state.IsValid() {
		state = Evaluate(b)
	}
	if !state.IsValid() {
		return &domain.ValidationError{Summary: SummaryUnresolved, Problems: []string{state.Reason()}}
	}
	return nil
}

func collect(entity string, draft any) []string {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, message(entity, fe))
	}
	return problems
}

func message(entity string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("The %s %s must not be negative.", entity, fe.Field())
	case "oneof":
		return fmt.Sprintf("Please choose the %s %s.", entity, fe.Field())
	default:
		return fmt.Sprintf("Please enter the %s %s.", entity, fe.Field())
	}
}

// CheckSnapshot runs the save gate over every record of a snapshot. The
// first blocked record is reported with its id.
func CheckSnapshot(s domain.Snapshot) error {
	for _, r := range s.Parts {
		if err := CheckPart(PartDraftOf(r), State{}); err != nil {
			return forRecord("part", r.ID, err)
		}
	}
	for _, r := range s.Products {
		if err := CheckProduct(ProductDraftOf(r), State{}); err != nil {
			return forRecord("product", r.ID, err)
		}
	}
	return nil
}

func PartDraftOf(r domain.PartRecord) PartDraft {
	return PartDraft{
		Name:        r.Name,
		Stock:       Int(r.Stock),
		Min:         Int(r.Min),
		Max:         Int(r.Max),
		Price:       Float(r.Price),
		Kind:        r.Kind,
		MachineID:   r.MachineID,
		CompanyName: r.CompanyName,
	}
}

func ProductDraftOf(r domain.ProductRecord) ProductDraft {
	return ProductDraft{
		Name:  r.Name,
		Stock: Int(r.Stock),
		Min:   Int(r.Min),
		Max:   Int(r.Max),
		Price: Float(r.Price),
	}
}

func forRecord(entity string, id int, err error) error {
	ve, ok := domain.AsValidationError(err)
	if !ok {
		return err
	}
	problems := make([]string, 0, len(ve.Problems))
	for _, p := range ve.Problems {
		problems = append(problems, fmt.Sprintf("%s %d: %s", entity, id, p))
	}
	return &domain.ValidationError{Summary: ve.Summary, Problems: problems}
}
