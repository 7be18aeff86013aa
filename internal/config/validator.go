package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/bizcharts/pkg/chart"
	bzerrors "github.com/alexisbeaulieu97/bizcharts/pkg/errors"
	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern  = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?$`)
	dataExtensions = map[string]struct{}{".csv": {}, ".json": {}, ".parquet": {}}
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(chart.YAMLFieldName)
		if err := chart.RegisterValidations(v); err != nil {
			panic(err)
		}

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("data_path", func(fl validator.FieldLevel) bool {
			path := fl.Field().String()
			if strings.TrimSpace(path) == "" || strings.Contains(path, "\x00") {
				return false
			}
			_, ok := dataExtensions[strings.ToLower(filepath.Ext(path))]
			return ok
		})

		_ = v.RegisterValidation("theme_preset", func(fl validator.FieldLevel) bool {
			_, err := theme.Preset(fl.Field().String())
			return err == nil
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns the shared validator with every document rule
// registered.
func GetValidator() *validator.Validate {
	return validatorInstance()
}

// ValidateDocument runs schema validation and the cross-field checks the
// tags cannot express.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return bzerrors.NewValidationError("document", "document is nil", nil)
	}

	if err := validatorInstance().Struct(doc); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]struct{}, len(doc.Data.Fields))
	for i, f := range doc.Data.Fields {
		if _, dup := seen[f.Name]; dup {
			return bzerrors.NewValidationError(fmt.Sprintf("data.fields[%d].name", i), fmt.Sprintf("duplicate field %q", f.Name), nil)
		}
		seen[f.Name] = struct{}{}
	}

	if len(seen) > 0 {
		for i, s := range doc.Options.Series {
			if _, ok := seen[s.Field]; !ok {
				return bzerrors.NewValidationError(fmt.Sprintf("options.series[%d].field", i), fmt.Sprintf("references unknown field %q", s.Field), nil)
			}
		}
	}

	if _, err := doc.BuildTransforms(); err != nil {
		return err
	}
	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		ve := ves[0]
		field := fieldPath(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return bzerrors.NewValidationError(field, msg, err)
	}

	return bzerrors.NewValidationError("document", err.Error(), err)
}

// fieldPath drops the root type and inlined option groups from the
// validator namespace, leaving the document's own key path.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ReplaceAll(ns, "ChartOptions.", "")
}
