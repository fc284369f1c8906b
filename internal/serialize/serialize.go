// Package serialize converts typed resource values into CloudFormation
// property maps and extracts the references between resources.
package serialize

import (
	"encoding/json"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// Properties serializes a Go struct to CloudFormation resource properties.
// It handles:
// - json tag names (BucketName, Type_ is tagged "Type")
// - Omitting nil/zero values
// - Nested structs, slices and maps
// - json.Marshaler values (intrinsics, principals, AttrRef)
//
// The result is normalized through encoding/json so numbers are float64,
// matching a template loaded back from disk.
func Properties(v any) (map[string]any, error) {
	raw, err := structValue(reflect.ValueOf(v))
	if err != nil || raw == nil {
		return nil, err
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var props map[string]any
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// Value serializes an arbitrary value (output values, dashboard bodies) with
// the same rules as Properties.
func Value(v any) (any, error) {
	raw, err := serializeValue(reflect.ValueOf(v))
	if err != nil || raw == nil {
		return raw, err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func structValue(val reflect.Value) (map[string]any, error) {
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil, nil
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return nil, nil
	}

	result := make(map[string]any)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		if !field.IsExported() {
			continue
		}

		name := fieldName(field)
		if name == "-" {
			continue
		}

		if isZeroValue(fieldVal) {
			continue
		}

		serialized, err := serializeValue(fieldVal)
		if err != nil {
			return nil, err
		}

		if serialized != nil {
			result[name] = serialized
		}
	}

	return result, nil
}

// fieldName returns the JSON field name for a struct field.
func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

// isZeroValue returns true if the value is the zero value for its type.
// Interface fields holding false or 0 are kept: an explicit value was set.
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Struct:
		if v.CanInterface() {
			if zeroer, ok := v.Interface().(interface{ IsZero() bool }); ok {
				return zeroer.IsZero()
			}
		}
		return false
	default:
		return false
	}
}

// serializeValue converts a reflect.Value to a JSON-compatible value.
func serializeValue(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}

	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		if v.CanInterface() {
			if m, ok := v.Interface().(json.Marshaler); ok {
				return marshaled(m)
			}
		}
		return serializeValue(v.Elem())
	}

	if v.CanInterface() {
		if m, ok := v.Interface().(json.Marshaler); ok {
			return marshaled(m)
		}
	}

	switch v.Kind() {
	case reflect.Struct:
		return structValue(v)

	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			if v.Kind() == reflect.Slice && !v.IsNil() {
				return []any{}, nil
			}
			return nil, nil
		}
		result := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := serializeValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			result[i] = elem
		}
		return result, nil

	case reflect.Map:
		if v.Len() == 0 {
			return map[string]any{}, nil
		}
		result := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			val, err := serializeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			result[iter.Key().String()] = val
		}
		return result, nil

	case reflect.String:
		return v.String(), nil

	case reflect.Bool:
		return v.Bool(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil

	case reflect.Float32, reflect.Float64:
		return v.Float(), nil

	default:
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return nil, err
		}
		var result any
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, err
		}
		return result, nil
	}
}

func marshaled(m json.Marshaler) (any, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// RefKind tells how one resource points at another.
type RefKind string

const (
	KindRef    RefKind = "Ref"
	KindGetAtt RefKind = "GetAtt"
	KindSub    RefKind = "Sub"
)

// Reference is one logical-name reference found in serialized properties.
type Reference struct {
	Target    string
	Attribute string
	Kind      RefKind
}

var subVarPattern = regexp.MustCompile(`\$\{([^!}][^}]*)\}`)

// References walks a serialized value and returns the logical names it
// references through Ref, Fn::GetAtt and Fn::Sub. Pseudo-parameters
// (AWS::Region, ...) and Fn::Sub map variables are not references.
// The result is sorted by target, then attribute.
func References(v any) []Reference {
	seen := make(map[Reference]bool)
	var refs []Reference
	add := func(r Reference) {
		if r.Target == "" || strings.HasPrefix(r.Target, "AWS::") || seen[r] {
			return
		}
		seen[r] = true
		refs = append(refs, r)
	}

	var walk func(any)
	walk = func(node any) {
		switch n := node.(type) {
		case map[string]any:
			if target, ok := n["Ref"].(string); ok && len(n) == 1 {
				add(Reference{Target: target, Kind: KindRef})
				return
			}
			if parts, ok := n["Fn::GetAtt"].([]any); ok && len(n) == 1 && len(parts) == 2 {
				target, _ := parts[0].(string)
				attr, _ := parts[1].(string)
				add(Reference{Target: target, Attribute: attr, Kind: KindGetAtt})
				return
			}
			if sub, ok := n["Fn::Sub"]; ok && len(n) == 1 {
				for _, r := range subReferences(sub) {
					add(r)
				}
				if args, ok := sub.([]any); ok && len(args) == 2 {
					walk(args[1])
				}
				return
			}
			for _, child := range n {
				walk(child)
			}
		case []any:
			for _, child := range n {
				walk(child)
			}
		}
	}
	walk(v)

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Target != refs[j].Target {
			return refs[i].Target < refs[j].Target
		}
		return refs[i].Attribute < refs[j].Attribute
	})
	return refs
}

func subReferences(sub any) []Reference {
	var (
		text string
		vars map[string]any
	)
	switch s := sub.(type) {
	case string:
		text = s
	case []any:
		if len(s) > 0 {
			text, _ = s[0].(string)
		}
		if len(s) > 1 {
			vars, _ = s[1].(map[string]any)
		}
	}

	var refs []Reference
	for _, m := range subVarPattern.FindAllStringSubmatch(text, -1) {
		name, attr, _ := strings.Cut(m[1], ".")
		if _, local := vars[name]; local {
			continue
		}
		refs = append(refs, Reference{Target: name, Attribute: attr, Kind: KindSub})
	}
	return refs
}
