package bbasis

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// EmptyObject is what an object without members normalizes to. It encodes as "{}", so it stays
// distinguishable from an empty list.
type EmptyObject struct{}

// JSONSerializer is implemented by values that describe their own JSON representation.
type JSONSerializer interface {
	JSONSerialize() any
}

// Normalize converts v into a structure of nil, scalars, []any, map[string]any and [EmptyObject] that can
// always be encoded as JSON. It never panics and normalizing its own output returns that output unchanged.
//
// Values are inspected in order: [JSONSerializer], time values, [json.Marshaler], then maps, slices and
// structs by their exported members.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil, EmptyObject, string, bool, float64, int, int64:
		return v
	case map[string]any:
		if t == nil {
			return nil
		}
		return normalizeMap(t)
	case []any:
		if t == nil {
			return nil
		}
		return normalizeSlice(t)
	}

	rv := reflect.ValueOf(v)
	if isNilPointer(rv) {
		return nil
	}

	switch t := v.(type) {
	case JSONSerializer:
		return Normalize(t.JSONSerialize())
	case time.Time:
		return Normalize(dateTime(t))
	case *time.Time:
		return Normalize(dateTime(*t))
	case json.Marshaler:
		if decoded, ok := decodeMarshaler(t); ok {
			return Normalize(decoded)
		}
	}

	return normalizeValue(rv)
}

func normalizeMap(m map[string]any) map[string]any {
	return lo.MapValues(m, func(v any, _ string) any { return normalizeElem(v) })
}

func normalizeSlice(s []any) []any {
	return lo.Map(s, func(v any, _ int) any { return normalizeElem(v) })
}

// normalizeElem skips the recursion for scalars.
func normalizeElem(v any) any {
	switch v.(type) {
	case nil, string, bool, float64, int, int64:
		return v
	}

	return Normalize(v)
}

// dateTime mirrors the structural form of a date: the wall clock, the kind of zone (1 for an unnamed
// offset, 3 for a named zone) and the zone itself.
func dateTime(t time.Time) map[string]any {
	zoneType, zone := 3, t.Location().String()
	if zone == "" {
		zoneType, zone = 1, t.Format("-07:00")
	}

	return map[string]any{
		"date":          t.Format("2006-01-02 15:04:05.000000"),
		"timezone_type": zoneType,
		"timezone":      zone,
	}
}

func decodeMarshaler(m json.Marshaler) (v any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = nil, false
		}
	}()

	b, err := m.MarshalJSON()
	if err != nil || !gjson.ValidBytes(b) {
		return nil, false
	}

	return gjson.ParseBytes(b).Value(), true
}

func isNilPointer(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

func normalizeValue(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rv.Interface()
	case reflect.Complex64, reflect.Complex128:
		return fmt.Sprint(rv.Interface())
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}

		return Normalize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}

		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalizeElem(rv.Index(i).Interface())
		}

		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = normalizeElem(iter.Value().Interface())
		}

		return out
	case reflect.Struct:
		out := map[string]any{}
		structFields(rv, out)
		if len(out) == 0 {
			return EmptyObject{}
		}

		return out
	}

	return nil
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}

	return fmt.Sprint(k.Interface())
}

// structFields collects the exported fields of rv into out, honoring json tag names and flattening
// untagged embedded structs. Fields of the struct itself take precedence over promoted ones.
func structFields(rv reflect.Value, out map[string]any) {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		name, tagged := fieldName(sf)
		if name == "-" {
			continue
		}

		fv := rv.Field(i)
		if sf.Anonymous && !tagged {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				ft, fv = ft.Elem(), fv.Elem()
			}

			if ft.Kind() == reflect.Struct && !serializesItself(fv) {
				promoted := map[string]any{}
				structFields(fv, promoted)
				for k, v := range promoted {
					if _, ok := out[k]; !ok {
						out[k] = v
					}
				}

				continue
			}
		}

		if !fv.CanInterface() {
			continue
		}

		out[name] = normalizeElem(fv.Interface())
	}
}

func serializesItself(fv reflect.Value) bool {
	if !fv.CanInterface() {
		return false
	}

	_, ok := fv.Interface().(JSONSerializer)

	return ok
}

func fieldName(sf reflect.StructField) (string, bool) {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return sf.Name, false
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return sf.Name, false
	}

	return name, true
}
