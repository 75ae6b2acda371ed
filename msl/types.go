package msl

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/spvmsl/spirv"
)

// typeToGlsl returns the MSL spelling of a type. The optional id
// names the object whose use of the type is being printed; image
// access qualifiers depend on it.
func (c *Compiler) typeToGlsl(typ *spirv.Type, id ...spirv.Id) string {
	var forID spirv.Id
	if len(id) > 0 {
		forID = id[0]
	}

	var typeName string
	switch typ.Base {
	case spirv.BaseStruct:
		return c.module.Name(typ.Self)

	case spirv.BaseImage, spirv.BaseSampledImage:
		return c.imageTypeGlsl(typ, forID)

	case spirv.BaseSampler:
		return "sampler"

	case spirv.BaseVoid:
		return "void"

	case spirv.BaseAtomicCounter:
		return "atomic_uint"

	case spirv.BaseBool:
		typeName = "bool"
	case spirv.BaseChar:
		typeName = "char"
	case spirv.BaseInt:
		if typ.Width == 16 {
			typeName = "short"
		} else {
			typeName = "int"
		}
	case spirv.BaseUInt:
		if typ.Width == 16 {
			typeName = "ushort"
		} else {
			typeName = "uint"
		}
	case spirv.BaseInt64:
		typeName = "long"
	case spirv.BaseUInt64:
		typeName = "size_t"
	case spirv.BaseFloat:
		if typ.Width == 16 {
			typeName = "half"
		} else {
			typeName = "float"
		}
	case spirv.BaseDouble:
		typeName = "double"

	default:
		return "unknown_type"
	}

	if typ.Columns > 1 {
		typeName += fmt.Sprintf("%dx", typ.Columns)
	}
	if typ.VecSize > 1 {
		typeName += fmt.Sprint(typ.VecSize)
	}
	return typeName
}

// typeToArrayGlsl returns the array suffix of a type declaration.
func (c *Compiler) typeToArrayGlsl(typ *spirv.Type) string {
	var suffix string
	for i := len(typ.Array) - 1; i >= 0; i-- {
		if typ.Array[i] == 0 {
			suffix += "[]"
		} else {
			suffix += fmt.Sprintf("[%d]", typ.Array[i])
		}
	}
	return suffix
}

// imageTypeGlsl returns the MSL texture type. The access qualifier of
// storage images reflects NonReadable/NonWritable decorations on the
// backing variable.
func (c *Compiler) imageTypeGlsl(typ *spirv.Type, id spirv.Id) string {
	m := c.module
	img := typ.Image
	var b strings.Builder

	if img.Depth {
		switch img.Dim {
		case spirv.Dim1D:
			b.WriteString("depth1d_unsupported_by_metal")
		case spirv.Dim2D:
			switch {
			case img.MS:
				b.WriteString("depth2d_ms")
			case img.Arrayed:
				b.WriteString("depth2d_array")
			default:
				b.WriteString("depth2d")
			}
		case spirv.Dim3D:
			b.WriteString("depth3d_unsupported_by_metal")
		case spirv.DimCube:
			if img.Arrayed {
				b.WriteString("depthcube_array")
			} else {
				b.WriteString("depthcube")
			}
		default:
			b.WriteString("unknown_depth_texture_type")
		}
	} else {
		switch img.Dim {
		case spirv.Dim1D:
			if img.Arrayed {
				b.WriteString("texture1d_array")
			} else {
				b.WriteString("texture1d")
			}
		case spirv.DimBuffer, spirv.Dim2D:
			switch {
			case img.MS:
				b.WriteString("texture2d_ms")
			case img.Arrayed:
				b.WriteString("texture2d_array")
			default:
				b.WriteString("texture2d")
			}
		case spirv.Dim3D:
			b.WriteString("texture3d")
		case spirv.DimCube:
			if img.Arrayed {
				b.WriteString("texturecube_array")
			} else {
				b.WriteString("texturecube")
			}
		default:
			b.WriteString("unknown_texture_type")
		}
	}

	b.WriteString("<")
	if sampledType := m.Type(img.SampledType); sampledType != nil {
		b.WriteString(c.typeToGlsl(sampledType))
	} else {
		b.WriteString("float")
	}

	// Storage images carry an explicit access qualifier, either taken
	// from SPIR-V directly or inferred from shader use.
	if typ.Base == spirv.BaseImage && img.Sampled == 2 {
		switch img.Access {
		case spirv.AccessQualifierReadOnly:
			b.WriteString(", access::read")
		case spirv.AccessQualifierWriteOnly:
			b.WriteString(", access::write")
		case spirv.AccessQualifierReadWrite:
			b.WriteString(", access::read_write")
		default:
			pVar := c.maybeGetBackingVariable(id)
			if pVar != nil && pVar.BaseVariable != 0 {
				pVar = m.Variable(pVar.BaseVariable)
			}
			if pVar != nil && !m.HasDecoration(pVar.Self, spirv.DecorationNonWritable) {
				b.WriteString(", access::")
				if !m.HasDecoration(pVar.Self, spirv.DecorationNonReadable) {
					b.WriteString("read_")
				}
				b.WriteString("write")
			}
		}
	}

	b.WriteString(">")
	return b.String()
}

// bitcastGlslOp returns the MSL cast spelling for OpBitcast between
// the two types: constructor syntax between Int and UInt (or Int64 and
// UInt64), as_type reinterpretation between Int/UInt and Float or
// Int64/UInt64 and Double, and "" for any other pair.
func (c *Compiler) bitcastGlslOp(outType, inType *spirv.Type) string {
	sameWidthInt := func(a, b spirv.BaseType) bool {
		return (a == spirv.BaseUInt && b == spirv.BaseInt) ||
			(a == spirv.BaseInt && b == spirv.BaseUInt) ||
			(a == spirv.BaseUInt64 && b == spirv.BaseInt64) ||
			(a == spirv.BaseInt64 && b == spirv.BaseUInt64)
	}
	if sameWidthInt(outType.Base, inType.Base) {
		return c.typeToGlsl(outType)
	}

	reinterpret := func(a, b spirv.BaseType) bool {
		switch {
		case (a == spirv.BaseUInt || a == spirv.BaseInt) && b == spirv.BaseFloat,
			a == spirv.BaseFloat && (b == spirv.BaseUInt || b == spirv.BaseInt),
			(a == spirv.BaseInt64 || a == spirv.BaseUInt64) && b == spirv.BaseDouble,
			a == spirv.BaseDouble && (b == spirv.BaseInt64 || b == spirv.BaseUInt64):
			return true
		}
		return false
	}
	if reinterpret(outType.Base, inType.Base) {
		return "as_type<" + c.typeToGlsl(outType) + ">"
	}
	return ""
}

// constantExpression renders a constant. Composites use initializer
// lists for arrays and structs, constructor syntax for matrices.
func (c *Compiler) constantExpression(con *spirv.Constant) string {
	m := c.module
	typ := m.Type(con.TypeID)

	if len(con.Subconstants) > 0 {
		open, close := "{", "}"
		if typ != nil && typ.IsMatrix() && !typ.IsArray() {
			open = c.typeToGlsl(typ) + "("
			close = ")"
		} else if typ != nil && typ.VecSize > 1 && !typ.IsArray() && typ.Base != spirv.BaseStruct {
			open = c.typeToGlsl(typ) + "("
			close = ")"
		}
		parts := make([]string, 0, len(con.Subconstants))
		for _, sub := range con.Subconstants {
			if subCon := m.Constant(sub); subCon != nil {
				parts = append(parts, c.constantExpression(subCon))
			}
		}
		return open + strings.Join(parts, ", ") + close
	}

	return c.constantScalarExpression(con, typ)
}

// constantScalarExpression renders a scalar constant with the backend
// literal rules: no float suffix, "u" suffix on uint32.
func (c *Compiler) constantScalarExpression(con *spirv.Constant, typ *spirv.Type) string {
	if typ == nil {
		return fmt.Sprint(con.ScalarValue())
	}
	switch typ.Base {
	case spirv.BaseBool:
		if con.Scalar != 0 {
			return "true"
		}
		return "false"
	case spirv.BaseFloat:
		return formatFloat(float64(math.Float32frombits(con.ScalarValue())))
	case spirv.BaseDouble:
		return formatFloat(math.Float64frombits(con.Scalar))
	case spirv.BaseInt, spirv.BaseChar:
		return fmt.Sprint(int32(con.ScalarValue()))
	case spirv.BaseUInt:
		return fmt.Sprintf("%du", con.ScalarValue())
	case spirv.BaseInt64:
		return fmt.Sprintf("%dl", int64(con.Scalar))
	case spirv.BaseUInt64:
		return fmt.Sprintf("%dul", con.Scalar)
	default:
		return fmt.Sprint(con.ScalarValue())
	}
}

// formatFloat renders a float literal that always reads back as a
// float: integral values keep a trailing ".0".
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 32)
	if !strings.ContainsAny(s, ".eEnI") {
		s += ".0"
	}
	return s
}
