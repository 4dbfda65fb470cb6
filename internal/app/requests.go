package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/agegap/internal/domain/model"
	"github.com/okian/agegap/internal/domain/query"
)

// FigureRequest selects the slice of medalists to aggregate. Zero ages
// mean "use the defaults".
type FigureRequest struct {
	AgeLo     int      `json:"age_lo" validate:"gte=0,lte=150"`
	AgeHi     int      `json:"age_hi" validate:"gte=0,lte=150"`
	Countries []string `json:"countries" validate:"dive,required,max=128"`
	// ShowText overrides the configured label default when set.
	ShowText *bool `json:"show_text,omitempty"`
}

// TableRequest filters, sorts and pages the medalist table.
type TableRequest struct {
	FilterQuery string `json:"filter_query" validate:"max=2048"`
	SortBy      string `json:"sort_by" validate:"max=256"`
	Page        int    `json:"page" validate:"gte=0"`
	PageSize    int    `json:"page_size" validate:"gte=0"`
}

// TablePage is one page of filtered table rows.
type TablePage struct {
	Rows     []model.Row     `json:"rows"`
	Columns  []string        `json:"columns"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Total    int             `json:"total"`
	Pages    int             `json:"pages"`
	Sort     []query.SortKey `json:"sort"`
	Report   query.Report    `json:"report"`
}

// AgeRange describes the age slider.
type AgeRange struct {
	Min       int `json:"min"`
	Max       int `json:"max"`
	DefaultLo int `json:"default_lo"`
	DefaultHi int `json:"default_hi"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate runs struct validation and turns field errors into one
// ErrBadRequest.
func (s *Service) validate(req any) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrBadRequest, strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
