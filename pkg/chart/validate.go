package chart

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	bzerrors "github.com/alexisbeaulieu97/bizcharts/pkg/errors"
	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// RegisterValidations installs the chart-specific rules on v:
//
//	color          parseable by theme.ParseColor
//	chart_type     a kind accepted by Create
//	export_format  a format accepted by Export
func RegisterValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"color": func(fl validator.FieldLevel) bool {
			_, err := theme.ParseColor(fl.Field().String())
			return err == nil
		},
		"chart_type": func(fl validator.FieldLevel) bool {
			return IsKnownKind(fl.Field().String())
		},
		"export_format": func(fl validator.FieldLevel) bool {
			_, ok := exportFormats[strings.ToLower(fl.Field().String())]
			return ok
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validation: %w", tag, err)
		}
	}
	return nil
}

// YAMLFieldName reports fields by their yaml key so validation paths match
// the chart document.
func YAMLFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(YAMLFieldName)
		if err := RegisterValidations(v); err != nil {
			panic(err)
		}
		validateInst = v
	})
	return validateInst
}

// Validate checks an options value against its validation tags.
func Validate(opts any) error {
	if err := validatorInstance().Struct(opts); err != nil {
		return ConvertValidationError(err)
	}
	return nil
}

// ConvertValidationError normalizes validator errors into ValidationError
// values keyed by the first failing field.
func ConvertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		ve := ves[0]
		field := fieldPath(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return bzerrors.NewValidationError(field, msg, err)
	}

	return bzerrors.NewValidationError("options", err.Error(), err)
}

// fieldPath drops the root struct name and inlined structs from the
// namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ReplaceAll(ns, "ChartOptions.", "")
}
