package toml

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Unmarshal parses TOML data into the struct or map pointed to by v
// Keys absent from data leave the target fields untouched, so v can carry defaults
func Unmarshal(data []byte, v any) error {
	tree, err := NewParser(data).Parse()
	if err != nil {
		return err
	}
	return Decode(tree, v)
}

// Decode maps a parsed tree onto v using `toml` tags, falling back to field names
func Decode(data any, v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer")
	}
	return decodeValue(data, val.Elem())
}

func decodeValue(data any, val reflect.Value) error {
	if data == nil {
		return nil
	}

	switch val.Kind() {
	case reflect.Ptr:
		if val.IsNil() {
			val.Set(reflect.New(val.Type().Elem()))
		}
		return decodeValue(data, val.Elem())

	case reflect.Struct:
		m, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("expected table, got %T", data)
		}
		return decodeStruct(m, val)

	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("only map[string]T is supported")
		}
		m, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("expected table, got %T", data)
		}
		if val.IsNil() {
			val.Set(reflect.MakeMap(val.Type()))
		}
		for k, item := range m {
			elem := reflect.New(val.Type().Elem()).Elem()
			if err := decodeValue(item, elem); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			val.SetMapIndex(reflect.ValueOf(k).Convert(val.Type().Key()), elem)
		}

	case reflect.Slice:
		items, ok := data.([]any)
		if !ok {
			return fmt.Errorf("expected array, got %T", data)
		}
		out := reflect.MakeSlice(val.Type(), len(items), len(items))
		for i, item := range items {
			if err := decodeValue(item, out.Index(i)); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		val.Set(out)

	case reflect.Interface:
		val.Set(reflect.ValueOf(data))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := data.(int64)
		if !ok {
			return fmt.Errorf("cannot convert %T to integer", data)
		}
		if val.OverflowInt(n) {
			return fmt.Errorf("%d overflows %s", n, val.Type())
		}
		val.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := data.(int64)
		if !ok || n < 0 || val.OverflowUint(uint64(n)) {
			return fmt.Errorf("cannot convert %v to %s", data, val.Type())
		}
		val.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		switch f := data.(type) {
		case float64:
			val.SetFloat(f)
		case int64:
			val.SetFloat(float64(f))
		default:
			return fmt.Errorf("cannot convert %T to float", data)
		}
		if math.IsInf(val.Float(), 0) {
			return fmt.Errorf("%v overflows %s", data, val.Type())
		}

	case reflect.String:
		s, ok := data.(string)
		if !ok {
			return fmt.Errorf("cannot convert %T to string", data)
		}
		val.SetString(s)

	case reflect.Bool:
		b, ok := data.(bool)
		if !ok {
			return fmt.Errorf("cannot convert %T to bool", data)
		}
		val.SetBool(b)

	default:
		return fmt.Errorf("unsupported kind %s", val.Kind())
	}
	return nil
}

func decodeStruct(data map[string]any, val reflect.Value) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		key, _ := fieldKey(field)
		if key == "" {
			continue
		}
		item, ok := data[key]
		if !ok {
			continue
		}
		if err := decodeValue(item, val.Field(i)); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// fieldKey returns the TOML key of a struct field and whether it is omitempty
// An empty key means the field is skipped
func fieldKey(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("toml")
	if tag == "-" {
		return "", false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, opts == "omitempty"
}
