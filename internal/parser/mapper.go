package parser

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/cmmoran/nativizer/internal/model"
)

// ParseType resolves a type expression against the types known to g.
//
//	scalar   := bool | byte | int32 | int64 | float | double | string | name | text
//	type     := scalar | enum:<Name> | struct:<Name> | object:<Name> | class:<Name>
//	          | array<type> | delegate:<Signature> | multicast:<Signature>
func ParseType(g *model.Graph, expr string) (model.FieldType, error) {
	s := strings.TrimSpace(expr)
	if inner, ok := strings.CutPrefix(s, "array<"); ok {
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			return nil, fmt.Errorf("%w: unterminated array %q", ErrUnknownType, expr)
		}
		elem, err := ParseType(g, inner)
		if err != nil {
			return nil, err
		}
		return model.ArrayOf(elem), nil
	}

	kind, name, found := strings.Cut(s, ":")
	if !found {
		if k, ok := model.ParseScalarKind(s); ok {
			return &model.ScalarType{Kind: k}, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, expr)
	}
	switch kind {
	case "enum":
		if e := g.Enum(name); e != nil {
			return model.EnumOf(e), nil
		}
	case "struct":
		if st := g.Struct(name); st != nil {
			return model.StructOf(st), nil
		}
	case "object":
		if c := g.Class(name); c != nil {
			return model.ObjectOf(c), nil
		}
	case "class":
		if c := g.Class(name); c != nil {
			return model.ClassOf(c), nil
		}
	case "delegate", "multicast":
		return &model.DelegateType{Signature: name, Multicast: kind == "multicast"}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, expr)
}

// fieldValue converts the raw decoded value of f. Static arrays are written
// as a list with one entry per element; null entries keep the zero value.
func (b *Builder) fieldValue(f *model.Field, raw any) (model.Value, error) {
	if f.Dim() > 1 {
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: static array expects a list", ErrInvalidValue, f.PathName())
		}
		if len(items) > f.Dim() {
			return nil, fmt.Errorf("%w: %s: %d elements for dimension %d", ErrInvalidValue, f.PathName(), len(items), f.Dim())
		}
		fa := &model.FixedArray{Items: make([]model.Value, len(items))}
		for i, item := range items {
			if item == nil {
				continue
			}
			v, err := b.value(f.Type, item, f.PathName())
			if err != nil {
				return nil, err
			}
			fa.Items[i] = v
		}
		return fa, nil
	}
	return b.value(f.Type, raw, f.PathName())
}

func (b *Builder) value(ft model.FieldType, raw any, path string) (model.Value, error) {
	if raw == nil {
		return model.Zero(ft), nil
	}
	invalid := func() error {
		return fmt.Errorf("%w: %s: %v (%T) for %s", ErrInvalidValue, path, raw, raw, ft)
	}

	switch t := ft.(type) {
	case *model.ScalarType:
		return scalarValue(t.Kind, raw, invalid)
	case *model.EnumType:
		switch x := raw.(type) {
		case string:
			idx := t.Enum.IndexOf(x)
			if idx < 0 {
				return nil, invalid()
			}
			return model.EnumValue(idx), nil
		default:
			n, ok := toInt(raw)
			if !ok {
				return nil, invalid()
			}
			return model.EnumValue(n), nil
		}
	case *model.StructType:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, invalid()
		}
		return b.structValue(t.Struct, m)
	case *model.ObjectType, *model.ClassType:
		ref, ok := raw.(string)
		if !ok {
			return nil, invalid()
		}
		target, err := b.refs.resolve(b.graph, ref)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return model.Ref(target), nil
	case *model.ArrayType:
		items, ok := raw.([]any)
		if !ok {
			return nil, invalid()
		}
		arr := &model.ArrayValue{Items: make([]model.Value, 0, len(items))}
		for _, item := range items {
			v, err := b.value(t.Elem, item, path)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, v)
		}
		return arr, nil
	case *model.DelegateType:
		return model.Delegate{}, nil
	}
	return nil, invalid()
}

// structValue converts a member map, visiting members in name order so
// that the first error reported is stable.
func (b *Builder) structValue(st *model.Struct, m map[string]any) (*model.StructValue, error) {
	sv := model.NewStructValue(st)
	for _, name := range slices.Sorted(maps.Keys(m)) {
		f := st.FindField(name)
		if f == nil {
			return nil, fmt.Errorf("%w: %s has no member %q", ErrInvalidValue, st.Name, name)
		}
		v, err := b.fieldValue(f, m[name])
		if err != nil {
			return nil, err
		}
		sv.Set(name, v)
	}
	return sv, nil
}

func scalarValue(kind model.ScalarKind, raw any, invalid func() error) (model.Value, error) {
	switch kind {
	case model.KindBool:
		if v, ok := raw.(bool); ok {
			return model.Bool(v), nil
		}
	case model.KindByte:
		if n, ok := toInt(raw); ok && n >= 0 && n <= math.MaxUint8 {
			return model.Byte(n), nil
		}
	case model.KindInt32:
		if n, ok := toInt(raw); ok && n >= math.MinInt32 && n <= math.MaxInt32 {
			return model.Int32(n), nil
		}
	case model.KindInt64:
		if n, ok := toInt(raw); ok {
			return model.Int64(n), nil
		}
	case model.KindFloat:
		if f, ok := toFloat(raw); ok {
			return model.Float(f), nil
		}
	case model.KindDouble:
		if f, ok := toFloat(raw); ok {
			return model.Double(f), nil
		}
	case model.KindString:
		if s, ok := raw.(string); ok {
			return model.String(s), nil
		}
	case model.KindName:
		if s, ok := raw.(string); ok {
			return model.Name(s), nil
		}
	case model.KindText:
		switch x := raw.(type) {
		case string:
			return model.Text{Source: x}, nil
		case map[string]any:
			return textValue(x)
		}
	}
	return nil, invalid()
}

func textValue(m map[string]any) (model.Value, error) {
	var t model.Text
	for k, v := range m {
		switch k {
		case "source", "namespace", "key":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: text %s must be a string", ErrInvalidValue, k)
			}
			switch k {
			case "source":
				t.Source = s
			case "namespace":
				t.Namespace = s
			default:
				t.Key = s
			}
		case "invariant":
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: text invariant must be a bool", ErrInvalidValue)
			}
			t.CultureInvariant = b
		default:
			return nil, fmt.Errorf("%w: unknown text member %q", ErrInvalidValue, k)
		}
	}
	return t, nil
}

// toInt accepts the integer representations produced by the yaml and json
// decoders. Floats must be integral.
func toInt(raw any) (int64, bool) {
	switch x := raw.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

func toFloat(raw any) (float64, bool) {
	switch x := raw.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
