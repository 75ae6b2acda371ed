package msl

import (
	"fmt"

	"github.com/gogpu/spvmsl/spirv"
)

// emitCustomFunctions emits helper function bodies for every tag the
// pre-processor or emission flagged, in tag order so output is stable.
//
//nolint:funlen // One case per helper body.
func (c *Compiler) emitCustomFunctions() {
	for impl := spvFuncImpl(0); impl < spvFuncImplCount; impl++ {
		if !c.spvFuncImpls[impl] {
			continue
		}
		switch impl {
		case spvFuncImplMod:
			c.statement("// Implementation of the GLSL mod() function, which is slightly different than Metal fmod()")
			c.statement("template<typename Tx, typename Ty>")
			c.statement("Tx mod(Tx x, Ty y)")
			c.beginScope()
			c.statement("return x - y * floor(x / y);")
			c.endScope()
			c.statement("")

		case spvFuncImplRadians:
			c.statement("// Implementation of the GLSL radians() function")
			c.statement("template<typename T>")
			c.statement("T radians(T d)")
			c.beginScope()
			c.statement("return d * 0.01745329251;")
			c.endScope()
			c.statement("")

		case spvFuncImplDegrees:
			c.statement("// Implementation of the GLSL degrees() function")
			c.statement("template<typename T>")
			c.statement("T degrees(T r)")
			c.beginScope()
			c.statement("return r * 57.2957795131;")
			c.endScope()
			c.statement("")

		case spvFuncImplFindILsb:
			c.statement("// Implementation of the GLSL findLSB() function")
			c.statement("template<typename T>")
			c.statement("T findLSB(T x)")
			c.beginScope()
			c.statement("return select(ctz(x), T(-1), x == T(0));")
			c.endScope()
			c.statement("")

		case spvFuncImplFindUMsb:
			c.statement("// Implementation of the unsigned GLSL findMSB() function")
			c.statement("template<typename T>")
			c.statement("T findUMSB(T x)")
			c.beginScope()
			c.statement("return select(clz(T(0)) - (clz(x) + T(1)), T(-1), x == T(0));")
			c.endScope()
			c.statement("")

		case spvFuncImplFindSMsb:
			c.statement("// Implementation of the signed GLSL findMSB() function")
			c.statement("template<typename T>")
			c.statement("T findSMSB(T x)")
			c.beginScope()
			c.statement("T v = select(x, T(-1) - x, x < T(0));")
			c.statement("return select(clz(T(0)) - (clz(v) + T(1)), T(-1), v == T(0));")
			c.endScope()
			c.statement("")

		case spvFuncImplArrayCopy:
			c.statement("// Implementation of an array copy function to cover GLSL's ability to copy an array via assignment.")
			c.statement("template<typename T>")
			c.statement("void spvArrayCopy(thread T* dst, thread const T* src, uint count)")
			c.beginScope()
			c.statement("for (uint i = 0; i < count; *dst++ = *src++, i++);")
			c.endScope()
			c.statement("")

		case spvFuncImplInverse2x2:
			c.emitInverseHelper(2)

		case spvFuncImplInverse3x3:
			c.emitInverseHelper(3)

		case spvFuncImplInverse4x4:
			c.emitInverseHelper(4)

		case spvFuncImplRowMajor2x3:
			c.emitRowMajorHelper("float2x3",
				"return float2x3(float3(m[0][0], m[0][2], m[1][1]), float3(m[0][1], m[1][0], m[1][2]));")

		case spvFuncImplRowMajor2x4:
			c.emitRowMajorHelper("float2x4",
				"return float2x4(float4(m[0][0], m[0][2], m[1][0], m[1][2]), float4(m[0][1], m[0][3], m[1][1], m[1][3]));")

		case spvFuncImplRowMajor3x2:
			c.emitRowMajorHelper("float3x2",
				"return float3x2(float2(m[0][0], m[1][1]), float2(m[0][1], m[2][0]), float2(m[1][0], m[2][1]));")

		case spvFuncImplRowMajor3x4:
			c.emitRowMajorHelper("float3x4",
				"return float3x4(float4(m[0][0], m[0][3], m[1][2], m[2][1]), float4(m[0][1], m[1][0], m[1][3], m[2][2]), float4(m[0][2], m[1][1], m[2][0], m[2][3]));")

		case spvFuncImplRowMajor4x2:
			c.emitRowMajorHelper("float4x2",
				"return float4x2(float2(m[0][0], m[2][0]), float2(m[0][1], m[2][1]), float2(m[1][0], m[3][0]), float2(m[1][1], m[3][1]));")

		case spvFuncImplRowMajor4x3:
			c.emitRowMajorHelper("float4x3",
				"return float4x3(float3(m[0][0], m[1][1], m[2][2]), float3(m[0][1], m[1][2], m[3][0]), float3(m[0][2], m[2][0], m[3][1]), float3(m[1][0], m[2][1], m[3][2]));")
		}
	}
}

// emitInverseHelper emits spvInverseNxN via the classical adjoint,
// together with the determinant helpers it needs.
func (c *Compiler) emitInverseHelper(n int) {
	if n >= 3 {
		c.statement("// Returns the determinant of a 2x2 matrix.")
		c.statement("inline float spvDet2x2(float a1, float a2, float b1, float b2)")
		c.beginScope()
		c.statement("return a1 * b2 - b1 * a2;")
		c.endScope()
		c.statement("")
	}
	if n == 4 {
		c.statement("// Returns the determinant of a 3x3 matrix.")
		c.statement("inline float spvDet3x3(float a1, float a2, float a3, float b1, float b2, float b3, float c1, float c2, float c3)")
		c.beginScope()
		c.statement("return a1 * spvDet2x2(b2, b3, c2, c3) - b1 * spvDet2x2(a2, a3, c2, c3) + c1 * spvDet2x2(a2, a3, b2, b3);")
		c.endScope()
		c.statement("")
	}

	typeName := fmt.Sprintf("float%dx%d", n, n)
	c.statement("// Returns the inverse of a matrix, by using the algorithm of calculating the classical")
	c.statement("// adjoint and dividing by the determinant. The contents of the matrix are changed.")
	c.statement("%s spvInverse%dx%d(%s m)", typeName, n, n, typeName)
	c.beginScope()
	c.statement("%s adj;\t// The adjoint matrix (inverse after dividing by determinant)", typeName)
	c.statement("")
	c.statement("// Create the transpose of the cofactors, as the classical adjoint of the matrix.")

	for col := 0; col < n; col++ {
		for row := 0; row < n; row++ {
			sign := ""
			if (col+row)%2 == 1 {
				sign = "-"
			} else {
				sign = " "
			}
			c.statement("adj[%d][%d] = %s%s;", col, row, sign, cofactorExpr(n, col, row))
		}
		c.statement("")
	}

	c.statement("// Calculate the determinant as a combination of the cofactors of the first row.")
	det := ""
	for col := 0; col < n; col++ {
		if col > 0 {
			det += " + "
		}
		det += fmt.Sprintf("(adj[0][%d] * m[%d][0])", col, col)
	}
	c.statement("float det = %s;", det)
	c.statement("")
	c.statement("// Divide the classical adjoint matrix by the determinant.")
	c.statement("// If determinant is zero, matrix is not invertable, so leave it unchanged.")
	c.statement("return (det != 0.0f) ? (adj * (1.0f / det)) : m;")
	c.endScope()
	c.statement("")
}

// cofactorExpr renders the minor determinant backing adj[adjCol][adjRow]:
// every element m[col][row] with col != adjRow and row != adjCol.
func cofactorExpr(n, adjCol, adjRow int) string {
	var cols, rows []int
	for i := 0; i < n; i++ {
		if i != adjCol {
			rows = append(rows, i)
		}
		if i != adjRow {
			cols = append(cols, i)
		}
	}

	if n == 2 {
		return fmt.Sprintf("m[%d][%d]", cols[0], rows[0])
	}

	fn := "spvDet2x2"
	if n == 4 {
		fn = "spvDet3x3"
	}
	expr := fn + "("
	first := true
	for _, col := range cols {
		for _, row := range rows {
			if !first {
				expr += ", "
			}
			first = false
			expr += fmt.Sprintf("m[%d][%d]", col, row)
		}
	}
	return expr + ")"
}

// emitRowMajorHelper emits one spvConvertFromRowMajor conversion.
func (c *Compiler) emitRowMajorHelper(typeName, body string) {
	c.statement("// Implementation of a conversion of matrix content from RowMajor to ColumnMajor organization.")
	c.statement("%s spvConvertFromRowMajor%s(%s m)", typeName, typeName[len("float"):], typeName)
	c.beginScope()
	c.statement("%s", body)
	c.endScope()
	c.statement("")
}

// addConvertRowMajorMatrixFunction registers the helper a non-square
// row-major matrix conversion needs. Demand discovered mid-emission
// forces a recompile so the next pass prints the helper ahead of use.
func (c *Compiler) addConvertRowMajorMatrixFunction(cols, rows uint32) {
	var fn spvFuncImpl
	switch {
	case cols == rows:
		// Square matrices just use the transpose() function.
		return
	case cols == 2 && rows == 3:
		fn = spvFuncImplRowMajor2x3
	case cols == 2 && rows == 4:
		fn = spvFuncImplRowMajor2x4
	case cols == 3 && rows == 2:
		fn = spvFuncImplRowMajor3x2
	case cols == 3 && rows == 4:
		fn = spvFuncImplRowMajor3x4
	case cols == 4 && rows == 2:
		fn = spvFuncImplRowMajor4x2
	case cols == 4 && rows == 3:
		fn = spvFuncImplRowMajor4x3
	default:
		c.fail(ErrUnsupportedType, "could not convert row-major matrix")
	}

	if !c.spvFuncImpls[fn] {
		c.spvFuncImpls[fn] = true
		c.addPragmaLine("#pragma clang diagnostic ignored \"-Wmissing-prototypes\"")
		c.forceRecompile = true
	}
}

// convertRowMajorMatrix wraps an expression in the conversion from
// row-major to column-major: transpose for square matrices, a
// spvConvertFromRowMajor helper otherwise.
func (c *Compiler) convertRowMajorMatrix(expr string, typ *spirv.Type) string {
	if typ.Columns == typ.VecSize {
		return "transpose(" + expr + ")"
	}
	return fmt.Sprintf("spvConvertFromRowMajor%dx%d(%s)", typ.Columns, typ.VecSize, expr)
}
