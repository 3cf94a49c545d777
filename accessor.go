package hubspot

import (
	"reflect"
	"strings"
)

// lookupPath walks path against root one segment at a time. Each step reads
// a struct field, map entry, or zero-argument method. The walk stops and
// reports absent as soon as any step is missing or nil.
func lookupPath(root any, path []string) (any, bool) {
	if root == nil {
		return nil, false
	}
	v := reflect.ValueOf(root)
	for _, seg := range path {
		var ok bool
		v, ok = lookupStep(v, seg)
		if !ok {
			return nil, false
		}
	}
	v, ok := deref(v)
	if !ok {
		return nil, false
	}
	return v.Interface(), true
}

// lookupStep resolves a single path segment on v.
//
// Struct fields are matched by json tag first, then by name with a fold
// that ignores case and underscores, so the accessor "stripe_customer"
// finds both a `json:"stripe_customer"` tag and a StripeCustomer field.
// Zero-argument single-return methods are the fallback, the analog of a
// computed attribute.
func lookupStep(v reflect.Value, seg string) (reflect.Value, bool) {
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	// Methods may have pointer receivers, so try before dereferencing.
	if m, ok := lookupMethod(v, seg); ok {
		return m, true
	}

	v, ok := deref(v)
	if !ok {
		return reflect.Value{}, false
	}

	switch v.Kind() {
	case reflect.Struct:
		if f, ok := lookupStructField(v, seg); ok {
			return f, true
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		mv := v.MapIndex(reflect.ValueOf(seg).Convert(v.Type().Key()))
		if mv.IsValid() {
			return mv, true
		}
		return reflect.Value{}, false
	}

	if m, ok := lookupMethod(v, seg); ok {
		return m, true
	}
	return reflect.Value{}, false
}

func lookupStructField(v reflect.Value, seg string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == seg {
			return v.Field(i), true
		}
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if foldName(f.Name) == foldName(seg) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func lookupMethod(v reflect.Value, seg string) (reflect.Value, bool) {
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
		return reflect.Value{}, false
	}
	t := v.Type()
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if !m.IsExported() || foldName(m.Name) != foldName(seg) {
			continue
		}
		fn := v.Method(i)
		if fn.Type().NumIn() != 0 || fn.Type().NumOut() != 1 {
			continue
		}
		return fn.Call(nil)[0], true
	}
	return reflect.Value{}, false
}

// deref unwraps pointers and interfaces. A nil at any layer reports absent.
func deref(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	return v, true
}

// foldName normalizes a field, method, or accessor segment for matching:
// lower case with underscores removed, so "stripe_customer" matches
// "StripeCustomer".
func foldName(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "")
}
