package toml

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Marshal returns the TOML encoding of a struct or map
// Struct fields keep declaration order, map keys are sorted
// Scalars of a table are written before its sub-tables; nil pointers are skipped
func Marshal(v any) ([]byte, error) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("marshal: nil pointer")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct && val.Kind() != reflect.Map {
		return nil, fmt.Errorf("marshal: root must be struct or map, got %v", val.Kind())
	}

	e := &encoder{}
	if err := e.encodeTable(val, ""); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf bytes.Buffer
}

type entry struct {
	key string
	val reflect.Value
}

func (e *encoder) encodeTable(rv reflect.Value, prefix string) error {
	entries, err := tableEntries(rv)
	if err != nil {
		return err
	}

	var tables []entry
	for _, en := range entries {
		if isTable(en.val) {
			tables = append(tables, en)
			continue
		}
		e.writeKey(en.key)
		e.buf.WriteString(" = ")
		if err := e.encodeValue(en.val); err != nil {
			return fmt.Errorf("key %q: %w", en.key, err)
		}
		e.buf.WriteByte('\n')
	}

	for _, en := range tables {
		name := quoteKey(en.key)
		if prefix != "" {
			name = prefix + "." + name
		}
		if e.buf.Len() > 0 {
			e.buf.WriteByte('\n')
		}
		e.buf.WriteString("[" + name + "]\n")
		if err := e.encodeTable(en.val, name); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeValue(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		e.buf.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.String:
		e.buf.WriteString(quote(v.String()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		e.buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("cannot encode %v", f)
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		e.buf.WriteString(s)
	case reflect.Slice, reflect.Array:
		e.buf.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				e.buf.WriteString(", ")
			}
			if err := e.encodeValue(indirect(v.Index(i))); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
	default:
		return fmt.Errorf("unsupported type %v", v.Kind())
	}
	return nil
}

func (e *encoder) writeKey(k string) {
	e.buf.WriteString(quoteKey(k))
}

// tableEntries lists the encodable members of a struct or map
func tableEntries(rv reflect.Value) ([]entry, error) {
	var out []entry

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map key must be string, got %v", rv.Type().Key().Kind())
		}
		for _, k := range rv.MapKeys() {
			v := indirect(rv.MapIndex(k))
			if v.IsValid() {
				out = append(out, entry{key: k.String(), val: v})
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })

	case reflect.Struct:
		typ := rv.Type()
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			if !f.IsExported() {
				continue
			}
			key, omitempty := fieldKey(f)
			if key == "" {
				continue
			}
			v := indirect(rv.Field(i))
			if !v.IsValid() || (omitempty && v.IsZero()) {
				continue
			}
			out = append(out, entry{key: key, val: v})
		}
	}
	return out, nil
}

// indirect unwraps interfaces and pointers; nil yields an invalid Value
func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isTable(v reflect.Value) bool {
	return v.Kind() == reflect.Struct || v.Kind() == reflect.Map
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// quoteKey leaves a key bare only when the lexer would read it back as an identifier
func quoteKey(k string) string {
	if k == "" || k == "true" || k == "false" {
		return quote(k)
	}
	for _, r := range k {
		if !isBareRune(r) {
			return quote(k)
		}
	}
	if c := rune(k[0]); isDigit(c) || c == '-' {
		return quote(k)
	}
	return k
}
