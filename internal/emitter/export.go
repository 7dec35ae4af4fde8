package emitter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cmmoran/nativizer/internal/model"
)

// formatFloat writes the shortest literal that reads back as the same
// 32-bit value.
func formatFloat(f model.Float) (string, bool) {
	v := float64(f)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "", false
	}
	return withFraction(strconv.FormatFloat(v, 'g', -1, 32)) + "f", true
}

func formatDouble(d model.Double) (string, bool) {
	v := float64(d)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "", false
	}
	return withFraction(strconv.FormatFloat(v, 'g', -1, 64)), true
}

func withFraction(s string) string {
	if strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeString(s string) string { return stringEscaper.Replace(s) }

func formatText(t model.Text) string {
	switch {
	case t.Source == "" && t.Key == "":
		return "FText::GetEmpty()"
	case t.CultureInvariant:
		return fmt.Sprintf(`FText::AsCultureInvariant(TEXT("%s"))`, escapeString(t.Source))
	case t.Key != "":
		return fmt.Sprintf(`NSLOCTEXT("%s", "%s", "%s")`, escapeString(t.Namespace), escapeString(t.Key), escapeString(t.Source))
	default:
		return fmt.Sprintf(`FText::FromString(TEXT("%s"))`, escapeString(t.Source))
	}
}

// exportText renders v as a single C++ expression. Structs have no generic
// form and always report false; arrays render as an empty constructor that
// element population completes.
func (c *Context) exportText(ft model.FieldType, v model.Value) (string, bool) {
	switch t := ft.(type) {
	case *model.ScalarType:
		return exportScalar(t.Kind, v)
	case *model.EnumType:
		ev, ok := v.(model.EnumValue)
		if !ok {
			return "", false
		}
		return t.Enum.ValueName(int64(ev))
	case *model.ObjectType, *model.ClassType:
		ref, ok := v.(model.ObjectRef)
		if !ok {
			return "", false
		}
		if ref.IsNull() {
			return "nullptr", true
		}
		name := c.findMapped(ref.Target, mapping{cppType: c.refCppType(ft), load: true})
		return name, name != ""
	case *model.ArrayType:
		return c.cppType(ft) + "()", true
	}
	return "", false
}

func exportScalar(kind model.ScalarKind, v model.Value) (string, bool) {
	switch x := v.(type) {
	case model.Bool:
		return strconv.FormatBool(bool(x)), kind == model.KindBool
	case model.Byte:
		return strconv.Itoa(int(x)), kind == model.KindByte
	case model.Int32:
		if x == math.MinInt32 {
			// The magnitude of the smallest value has no literal of its own type.
			return "(-2147483647 - 1)", kind == model.KindInt32
		}
		return strconv.FormatInt(int64(x), 10), kind == model.KindInt32
	case model.Int64:
		if x == math.MinInt64 {
			return "(-9223372036854775807LL - 1)", kind == model.KindInt64
		}
		return strconv.FormatInt(int64(x), 10) + "LL", kind == model.KindInt64
	case model.Float:
		if kind != model.KindFloat {
			return "", false
		}
		return formatFloat(x)
	case model.Double:
		if kind != model.KindDouble {
			return "", false
		}
		return formatDouble(x)
	case model.String:
		return fmt.Sprintf(`FString(TEXT("%s"))`, escapeString(string(x))), kind == model.KindString
	case model.Name:
		if x == "" {
			return "NAME_None", kind == model.KindName
		}
		return fmt.Sprintf(`FName(TEXT("%s"))`, escapeString(string(x))), kind == model.KindName
	case model.Text:
		return formatText(x), kind == model.KindText
	}
	return "", false
}

// cppType is the declaration type of a property of type ft.
func (c *Context) cppType(ft model.FieldType) string {
	switch t := ft.(type) {
	case *model.ScalarType:
		switch t.Kind {
		case model.KindBool:
			return "bool"
		case model.KindByte:
			return "uint8"
		case model.KindInt32:
			return "int32"
		case model.KindInt64:
			return "int64"
		case model.KindFloat:
			return "float"
		case model.KindDouble:
			return "double"
		case model.KindString:
			return "FString"
		case model.KindName:
			return "FName"
		case model.KindText:
			return "FText"
		}
	case *model.EnumType:
		return t.Enum.CppType()
	case *model.StructType:
		return t.Struct.CppName()
	case *model.ObjectType:
		return c.firstNativeOrConverted(t.Class).CppName() + "*"
	case *model.ClassType:
		return "TSubclassOf<" + c.firstNativeOrConverted(t.MetaClass).CppName() + ">"
	case *model.ArrayType:
		return "TArray<" + c.cppType(t.Elem) + ">"
	case *model.DelegateType:
		if t.Multicast {
			return "FMulticastScriptDelegate"
		}
		return "FScriptDelegate"
	}
	return "void"
}

// refCppType is the class a reference of type ft is cast to.
func (c *Context) refCppType(ft model.FieldType) string {
	switch t := ft.(type) {
	case *model.ObjectType:
		return c.firstNativeOrConverted(t.Class).CppName()
	case *model.ClassType:
		return "UClass"
	}
	return ""
}
