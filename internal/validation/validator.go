package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/go-viper/mapstructure/v2"
	"github.com/stwalsh4118/seattle-energy/internal/models"
)

// Result is a record that passed every rule of a schema.
// Values holds the coerced values by column name, defaults included;
// Record is the same data decoded into the typed model.
type Result struct {
	Record models.BuildingRecord
	Values map[string]interface{}
}

// coherenceRule is a rule spanning more than one field. Check is only
// evaluated once every single-field rule passed.
type coherenceRule struct {
	Tag     string
	Field   string
	Check   func(models.BuildingRecord) bool
	Message func(models.BuildingRecord) string
}

var coherenceRules = []coherenceRule{
	{
		Tag:   "parking_lte_total",
		Field: "PropertyGFAParking",
		Check: func(r models.BuildingRecord) bool {
			if r.PropertyGFAParking == nil || r.PropertyGFATotal == nil {
				return true
			}
			return *r.PropertyGFAParking <= *r.PropertyGFATotal
		},
		Message: func(r models.BuildingRecord) string {
			return fmt.Sprintf("parking GFA (%g) cannot exceed total GFA (%g)",
				*r.PropertyGFAParking, *r.PropertyGFATotal)
		},
	},
}

// Validator checks raw key/value records against a Schema.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New creates a Validator with English messages, the notblank rule for
// required text and the cross-field rules registered on models.BuildingRecord.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register validation translations: %w", err)
	}

	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("failed to register notblank rule: %w", err)
	}
	validate.RegisterStructValidation(checkCoherence, models.BuildingRecord{})

	return &Validator{validate: validate, trans: trans}, nil
}

func checkCoherence(sl validator.StructLevel) {
	record, ok := sl.Current().Interface().(models.BuildingRecord)
	if !ok {
		return
	}
	for _, rule := range coherenceRules {
		if !rule.Check(record) {
			sl.ReportError(sl.Current().FieldByName(rule.Field).Interface(), rule.Field, rule.Field, rule.Tag, "")
		}
	}
}

// Validate checks raw against every rule of schema. On failure it returns a
// *Error listing all violations. Unknown keys are ignored.
func (v *Validator) Validate(schema Schema, raw map[string]interface{}) (*Result, error) {
	values := make(map[string]interface{}, len(schema.Fields))
	var violations []FieldError

	for _, spec := range schema.Fields {
		rawValue, present := raw[spec.Name]
		if !present || rawValue == nil {
			if spec.Required {
				violations = append(violations, FieldError{
					Field:   spec.Name,
					Kind:    KindFieldRequired,
					Message: MessageFieldRequired,
				})
			} else if spec.Default != nil {
				values[spec.Name] = spec.Default
			}
			continue
		}

		value, ok := coerce(spec.Type, rawValue)
		if !ok {
			violations = append(violations, FieldError{
				Field:   spec.Name,
				Kind:    KindTypeError,
				Message: typeMessage(spec.Type),
			})
			continue
		}

		if spec.Rules != "" {
			if err := v.validate.Var(value, spec.Rules); err != nil {
				violations = append(violations, FieldError{
					Field:   spec.Name,
					Kind:    KindValidation,
					Message: v.ruleMessage(spec, err),
				})
				continue
			}
		}

		values[spec.Name] = value
	}

	if len(violations) > 0 {
		return nil, &Error{Schema: schema.Name, Fields: violations}
	}

	var record models.BuildingRecord
	if err := mapstructure.Decode(values, &record); err != nil {
		return nil, fmt.Errorf("failed to decode %s record: %w", schema.Name, err)
	}

	if err := v.validate.Struct(record); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("failed to check %s record coherence: %w", schema.Name, err)
		}
		for _, fe := range verrs {
			violations = append(violations, FieldError{
				Field:   fe.Field(),
				Kind:    KindCoherence,
				Message: coherenceMessage(fe.Tag(), record),
			})
		}
		return nil, &Error{Schema: schema.Name, Fields: violations}
	}

	return &Result{Record: record, Values: values}, nil
}

// ruleMessage prefers the spec's message and falls back to the translated
// validator text prefixed with the field name.
func (v *Validator) ruleMessage(spec FieldSpec, err error) string {
	if spec.Message != "" {
		return spec.Message
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return spec.Name + " " + strings.TrimSpace(verrs[0].Translate(v.trans))
	}
	return spec.Name + " is invalid"
}

func coherenceMessage(tag string, record models.BuildingRecord) string {
	for _, rule := range coherenceRules {
		if rule.Tag == tag {
			return rule.Message(record)
		}
	}
	return "fields are not coherent"
}

// coerce converts a decoded JSON value to the Go type of t: int64, float64
// or string. Numeric strings are accepted for numbers; booleans never are.
func coerce(t Type, value interface{}) (interface{}, bool) {
	switch t {
	case TypeInt:
		if n, ok := toInt(value); ok {
			return n, true
		}
	case TypeFloat:
		if f, ok := toFloat(value); ok {
			return f, true
		}
	default:
		if s, ok := value.(string); ok {
			return s, true
		}
	}
	return nil, false
}

func typeMessage(t Type) string {
	switch t {
	case TypeInt:
		return "Input should be a valid integer"
	case TypeFloat:
		return "Input should be a valid number"
	default:
		return "Input should be a valid string"
	}
}

func toInt(value interface{}) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return integral(f)
		}
	case float64:
		return integral(n)
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return integral(f)
		}
	}
	return 0, false
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func toFloat(value interface{}) (float64, bool) {
	var f float64
	switch n := value.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
