package adminapi

import (
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/shopkite/catalog/internal/domain"
)

// formValues parses the (multipart) form once per request. Coercion errors
// carry ErrBadInput so they surface as 400 before anything is written.
func formValues(c echo.Context) (url.Values, error) {
	form, err := c.FormParams()
	if err != nil {
		return nil, errors.Wrapf(domain.ErrBadInput, "parse form: %v", err)
	}
	return form, nil
}

// formString returns the first present alias, trimmed, and whether any alias
// was supplied. The front-end sends camelCase on create and snake_case on
// update, so most fields carry two names.
func formString(form url.Values, names ...string) (string, bool) {
	for _, name := range names {
		if form.Has(name) {
			return strings.TrimSpace(form.Get(name)), true
		}
	}
	return "", false
}

func formFloat(form url.Values, names ...string) (float64, bool, error) {
	v, present := formString(form, names...)
	if !present {
		return 0, false, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, true, errors.Wrapf(domain.ErrBadInput, "field %s: %q is not a number", names[0], v)
	}
	return f, true, nil
}

// formFloatPtr treats an empty value as null, matching the old_price wire
// behavior.
func formFloatPtr(form url.Values, names ...string) (*float64, bool, error) {
	v, present := formString(form, names...)
	if !present {
		return nil, false, nil
	}
	if v == "" {
		return nil, true, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, true, errors.Wrapf(domain.ErrBadInput, "field %s: %q is not a number", names[0], v)
	}
	return &f, true, nil
}

func formInt(form url.Values, names ...string) (int, bool, error) {
	v, present := formString(form, names...)
	if !present {
		return 0, false, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, true, errors.Wrapf(domain.ErrBadInput, "field %s: %q is not a number", names[0], v)
	}
	return n, true, nil
}

func formIntPtr(form url.Values, names ...string) (*int, bool, error) {
	v, present := formString(form, names...)
	if !present {
		return nil, false, nil
	}
	if v == "" {
		return nil, true, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return nil, true, errors.Wrapf(domain.ErrBadInput, "field %s: %q is not a number", names[0], v)
	}
	return &n, true, nil
}

func formBool(form url.Values, names ...string) (bool, bool, error) {
	v, present := formString(form, names...)
	if !present || v == "" {
		return false, false, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, true, errors.Wrapf(domain.ErrBadInput, "field %s: %q is not a boolean", names[0], v)
	}
	return b, true, nil
}

// requireFloat is formFloat for fields a create cannot do without.
func requireFloat(form url.Values, names ...string) (float64, error) {
	f, present, err := formFloat(form, names...)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, errors.Wrapf(domain.ErrBadInput, "field %s is required", names[0])
	}
	return f, nil
}

func requireInt(form url.Values, names ...string) (int, error) {
	n, present, err := formInt(form, names...)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, errors.Wrapf(domain.ErrBadInput, "field %s is required", names[0])
	}
	return n, nil
}
