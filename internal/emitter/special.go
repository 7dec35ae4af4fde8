package emitter

import (
	"fmt"

	"github.com/cmmoran/nativizer/internal/model"
)

type specialFormatter func(v *model.StructValue) (string, bool)

// specialStructs maps well-known native structs onto a single constructor
// expression. Fields are read in the order the native constructor takes them.
var specialStructs map[string]specialFormatter

func init() {
	specialStructs = map[string]specialFormatter{
		"LatentActionInfo": formatLatentActionInfo,
		"Transform":        formatTransform,
		"Vector":           formatFloats("FVector(%s, %s, %s)", "X", "Y", "Z"),
		"Guid":             formatGuid,
		"Rotator":          formatFloats("FRotator(%s, %s, %s)", "Pitch", "Yaw", "Roll"),
		"LinearColor":      formatFloats("FLinearColor(%s, %s, %s, %s)", "R", "G", "B", "A"),
		"Color":            formatColor,
		"Vector2D":         formatFloats("FVector2D(%s, %s)", "X", "Y"),
		"Box2D":            formatBox2D,
		"FloatRangeBound":  formatRangeBound("FFloatRangeBound"),
		"FloatRange":       formatRange("FFloatRange", "FFloatRangeBound"),
		"Int32RangeBound":  formatRangeBound("FInt32RangeBound"),
		"Int32Range":       formatRange("FInt32Range", "FInt32RangeBound"),
		"FloatInterval":    formatFloats("FFloatInterval(%s, %s)", "Min", "Max"),
		"Int32Interval":    formatInt32Interval,
	}
}

func specialFormatterFor(st *model.Struct) specialFormatter {
	if st == nil || !st.Native || st.UserDefined {
		return nil
	}
	if st.Package != model.CorePackage && st.Package != model.EnginePackage {
		return nil
	}
	return specialStructs[st.Name]
}

// IsSpecialStruct reports whether values of st have a one-line constructor.
func IsSpecialStruct(st *model.Struct) bool {
	return specialFormatterFor(st) != nil
}

// FormatSpecialStruct renders v as a constructor expression when st is one
// of the recognized engine structs. The second result is false when st is
// not recognized or a component cannot be written as a literal.
func FormatSpecialStruct(st *model.Struct, v *model.StructValue) (string, bool) {
	format := specialFormatterFor(st)
	if format == nil {
		return "", false
	}
	if v == nil {
		v = model.NewStructValue(st)
	}
	return format(v)
}

func formatFloats(layout string, names ...string) specialFormatter {
	return func(v *model.StructValue) (string, bool) {
		args := make([]any, len(names))
		for i, n := range names {
			s, ok := floatField(v, n)
			if !ok {
				return "", false
			}
			args[i] = s
		}
		return fmt.Sprintf(layout, args...), true
	}
}

func formatTransform(v *model.StructValue) (string, bool) {
	rot, _ := v.Get("Rotation").(*model.StructValue)
	tr, _ := v.Get("Translation").(*model.StructValue)
	sc, _ := v.Get("Scale3D").(*model.StructValue)
	if rot == nil || tr == nil || sc == nil {
		return "", false
	}
	var args []any
	for _, part := range []struct {
		sv    *model.StructValue
		names []string
	}{
		{rot, []string{"X", "Y", "Z", "W"}},
		{tr, []string{"X", "Y", "Z"}},
		{sc, []string{"X", "Y", "Z"}},
	} {
		for _, n := range part.names {
			s, ok := floatField(part.sv, n)
			if !ok {
				return "", false
			}
			args = append(args, s)
		}
	}
	return fmt.Sprintf("FTransform( FQuat(%s,%s,%s,%s), FVector(%s,%s,%s), FVector(%s,%s,%s) )", args...), true
}

func formatGuid(v *model.StructValue) (string, bool) {
	var parts [4]uint32
	for i, n := range []string{"A", "B", "C", "D"} {
		parts[i] = uint32(intField(v, n))
	}
	return fmt.Sprintf("FGuid(0x%08X, 0x%08X, 0x%08X, 0x%08X)", parts[0], parts[1], parts[2], parts[3]), true
}

func formatColor(v *model.StructValue) (string, bool) {
	return fmt.Sprintf("FColor(%d, %d, %d, %d)",
		intField(v, "R"), intField(v, "G"), intField(v, "B"), intField(v, "A")), true
}

func formatBox2D(v *model.StructValue) (string, bool) {
	minV, _ := v.Get("Min").(*model.StructValue)
	maxV, _ := v.Get("Max").(*model.StructValue)
	if minV == nil || maxV == nil {
		return "", false
	}
	vec := formatFloats("FVector2D(%s, %s)", "X", "Y")
	minS, ok := vec(minV)
	if !ok {
		return "", false
	}
	maxS, ok := vec(maxV)
	if !ok {
		return "", false
	}
	valid, _ := v.Get("bIsValid").(model.Bool)
	return fmt.Sprintf("CreateFBox2D(%s, %s, %t)", minS, maxS, bool(valid)), true
}

// Range bound kinds follow ERangeBoundTypes.
const (
	boundExclusive = 0
	boundInclusive = 1
	boundOpen      = 2
)

func formatRangeBound(cppName string) specialFormatter {
	return func(v *model.StructValue) (string, bool) {
		kind, _ := v.Get("Type").(model.EnumValue)
		var value string
		switch fv := v.Get("Value").(type) {
		case model.Float:
			s, ok := formatFloat(fv)
			if !ok {
				return "", false
			}
			value = s
		case model.Int32:
			value = fmt.Sprintf("%d", int32(fv))
		default:
			return "", false
		}
		switch kind {
		case boundExclusive:
			return fmt.Sprintf("%s::Exclusive(%s)", cppName, value), true
		case boundInclusive:
			return fmt.Sprintf("%s::Inclusive(%s)", cppName, value), true
		case boundOpen:
			return cppName + "::Open()", true
		}
		return "", false
	}
}

func formatRange(cppName, boundName string) specialFormatter {
	bound := formatRangeBound(boundName)
	return func(v *model.StructValue) (string, bool) {
		lower, _ := v.Get("LowerBound").(*model.StructValue)
		upper, _ := v.Get("UpperBound").(*model.StructValue)
		if lower == nil || upper == nil {
			return "", false
		}
		lowerS, ok := bound(lower)
		if !ok {
			return "", false
		}
		upperS, ok := bound(upper)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s(%s, %s)", cppName, lowerS, upperS), true
	}
}

func formatInt32Interval(v *model.StructValue) (string, bool) {
	return fmt.Sprintf("FInt32Interval(%d, %d)", intField(v, "Min"), intField(v, "Max")), true
}

func formatLatentActionInfo(v *model.StructValue) (string, bool) {
	fn, _ := v.Get("ExecutionFunction").(model.Name)
	return fmt.Sprintf(`FLatentActionInfo(%d, %d, TEXT("%s"), this)`,
		intField(v, "Linkage"), intField(v, "UUID"), escapeString(string(fn))), true
}

func floatField(v *model.StructValue, name string) (string, bool) {
	f, ok := v.Get(name).(model.Float)
	if !ok {
		return "", false
	}
	return formatFloat(f)
}

func intField(v *model.StructValue, name string) int64 {
	switch n := v.Get(name).(type) {
	case model.Int32:
		return int64(n)
	case model.Byte:
		return int64(n)
	case model.Int64:
		return int64(n)
	}
	return 0
}
