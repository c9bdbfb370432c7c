package resource

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

// Draft is the in-progress, not-yet-submitted representation of one resource
// being created or edited. It is mutated field-by-field on user input and
// discarded (Reset) on successful submit or explicit cancel; it never touches
// the cached collection.
type Draft struct {
	schema Schema
	values map[string]interface{}
	seed   map[string]interface{}
}

// NewDraft returns an empty draft for the given resource type.
func NewDraft(schema Schema) *Draft {
	return &Draft{
		schema: schema,
		values: make(map[string]interface{}),
	}
}

// EditDraft returns a draft seeded from an existing resource; Reset restores
// the seeded values.
func EditDraft(schema Schema, res Resource) *Draft {
	d := &Draft{
		schema: schema,
		values: make(map[string]interface{}, len(schema.Fields)),
		seed:   make(map[string]interface{}, len(schema.Fields)),
	}
	for _, f := range schema.Fields {
		if v, ok := res.Fields[f.Name]; ok {
			d.values[f.Name] = v
			d.seed[f.Name] = v
		}
	}
	return d
}

// SetField updates exactly one field, leaving the others untouched.
func (d *Draft) SetField(name string, value interface{}) {
	d.values[name] = value
}

// Get returns the current input value for the named field.
func (d *Draft) Get(name string) interface{} {
	return d.values[name]
}

// Reset clears the draft back to its initial empty (or seeded) shape.
func (d *Draft) Reset() {
	d.values = make(map[string]interface{}, len(d.seed))
	for k, v := range d.seed {
		d.values[k] = v
	}
}

// Validate checks every required field is present and every numeric field
// holds a usable number. It reports all violations, first violated constraint
// (in schema field order) first; no request may be sent when it fails.
func (d *Draft) Validate() error {
	rules := make(map[string]interface{}, len(d.schema.Fields))
	for _, f := range d.schema.Fields {
		tags := d.fieldRules(f)
		if tags == "" {
			continue
		}
		rules[f.Name] = tags
	}
	if len(rules) == 0 {
		return nil
	}

	errs := core.Validate.ValidateMap(d.validationValues(), rules)
	if len(errs) == 0 {
		return nil
	}

	fldErrs := make([]core.FieldError, 0, len(errs))
	for _, f := range d.schema.Fields {
		err, ok := errs[f.Name]
		if !ok {
			continue
		}
		fldErrs = append(fldErrs, core.FieldError{Field: f.Name, Error: validationText(err)})
	}
	return core.NewValidationError(nil, fldErrs...)
}

func (d *Draft) fieldRules(f Field) string {
	var tags []string
	if f.Required {
		tags = append(tags, "required")
	}
	if f.Numeric {
		if !f.Required {
			tags = append(tags, "omitempty")
		}
		tags = append(tags, "numeric")
	}
	return strings.Join(tags, ",")
}

// validationValues normalizes inputs for the validator: whitespace-only
// strings count as missing.
func (d *Draft) validationValues() map[string]interface{} {
	vals := make(map[string]interface{}, len(d.values))
	for k, v := range d.values {
		if s, ok := v.(string); ok {
			vals[k] = core.CleanString(s)
			continue
		}
		vals[k] = v
	}
	return vals
}

func validationText(err interface{}) string {
	if vErrs, ok := err.(validator.ValidationErrors); ok && len(vErrs) > 0 {
		return vErrs[0].Translate(core.Translator)
	}
	if e, ok := err.(error); ok {
		return e.Error()
	}
	return "invalid value"
}

// Payload returns the JSON body to submit: trimmed strings, numeric fields
// coerced to numbers. Empty optional fields are omitted; a numeric field that
// does not parse is an error (it is never sent as a string or NaN).
func (d *Draft) Payload() (map[string]interface{}, error) {
	body := make(map[string]interface{}, len(d.values))
	for name, v := range d.values {
		f, declared := d.schema.Field(name)
		if s, ok := v.(string); ok {
			s = core.CleanString(s)
			if s == "" {
				continue
			}
			if declared && f.Numeric {
				n, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return nil, errors.Wrapf(err, "parsing %s as number", name)
				}
				body[name] = n
				continue
			}
			body[name] = s
			continue
		}
		if v == nil {
			continue
		}
		body[name] = v
	}
	return body, nil
}
