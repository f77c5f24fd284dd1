package directory

import (
	"fmt"
	"strings"

	"github.com/evyataryagoni/storefinder/internal/models"
	"github.com/go-playground/validator/v10"
)

// ValidationKind names the precondition a write or lookup failed
type ValidationKind int

const (
	InvalidID ValidationKind = iota + 1
	EmptyPostcode
	MissingName
	EmptyAttributes
	InvalidCoordinates
)

func (k ValidationKind) String() string {
	switch k {
	case InvalidID:
		return "invalid id"
	case EmptyPostcode:
		return "empty postcode"
	case MissingName:
		return "missing name"
	case EmptyAttributes:
		return "empty attributes"
	case InvalidCoordinates:
		return "invalid coordinates"
	default:
		return "unknown"
	}
}

// ValidationError is returned by the Validate* methods before any I/O happens
type ValidationError struct {
	Kind  ValidationKind
	Value interface{}
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Value)
}

// ValidateID checks a store id
func (d *Directory) ValidateID(id int64) error {
	if err := d.validator.Var(id, "gt=0"); err != nil {
		return &ValidationError{Kind: InvalidID, Value: id}
	}
	return nil
}

// ValidateAdd checks the preconditions of AddStore
func (d *Directory) ValidateAdd(postcode string, attrs models.Record) error {
	if err := d.validatePostcode(postcode); err != nil {
		return err
	}
	if err := d.validator.Var(strings.TrimSpace(attrs.Name()), "required"); err != nil {
		return &ValidationError{Kind: MissingName}
	}
	return nil
}

// ValidateUpdate checks the preconditions of UpdateStore
func (d *Directory) ValidateUpdate(id int64, postcode string, attrs models.Record) error {
	if err := d.ValidateID(id); err != nil {
		return err
	}
	if err := d.validatePostcode(postcode); err != nil {
		return err
	}
	if err := d.validator.Var(map[string]interface{}(attrs), "min=1"); err != nil {
		return &ValidationError{Kind: EmptyAttributes}
	}
	return nil
}

// ValidateCoordinates checks a search origin is a real point on the globe
func (d *Directory) ValidateCoordinates(lat, lng float64) error {
	if d.validator.Var(lat, "latitude") != nil || d.validator.Var(lng, "longitude") != nil {
		return &ValidationError{Kind: InvalidCoordinates, Value: models.Coordinates{Latitude: lat, Longitude: lng}}
	}
	return nil
}

func (d *Directory) validatePostcode(postcode string) error {
	if err := d.validator.Var(strings.TrimSpace(postcode), "required"); err != nil {
		return &ValidationError{Kind: EmptyPostcode}
	}
	return nil
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
