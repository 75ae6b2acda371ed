package msl

import (
	"strings"

	"github.com/gogpu/spvmsl/spirv"
)

// expressionType resolves the type of any id usable in an expression:
// variables, constants, parameters, undefs and instruction results.
func (c *Compiler) expressionType(id spirv.Id) *spirv.Type {
	m := c.module
	if v := m.Variable(id); v != nil {
		return m.Type(v.TypeID)
	}
	if con := m.Constant(id); con != nil {
		return m.Type(con.TypeID)
	}
	if typeID, ok := c.resultTypes[id]; ok {
		return m.Type(typeID)
	}
	if typeID, ok := m.Undefs[id]; ok {
		return m.Type(typeID)
	}
	return nil
}

// maybeGetBackingVariable returns the variable behind an id, looking
// through access chains and loads.
func (c *Compiler) maybeGetBackingVariable(id spirv.Id) *spirv.Variable {
	if v := c.module.Variable(id); v != nil {
		return v
	}
	if base, ok := c.exprBackingVar[id]; ok {
		return c.module.Variable(base)
	}
	return nil
}

// toExpression renders the id as MSL source. Row-major matrix reads
// are converted to column-major on the way out.
func (c *Compiler) toExpression(id spirv.Id) string {
	expr := c.toUnconvertedExpression(id)
	if c.needTranspose[id] {
		if typ := c.expressionType(id); typ != nil {
			return c.convertRowMajorMatrix(expr, typ)
		}
	}
	return expr
}

func (c *Compiler) toUnconvertedExpression(id spirv.Id) string {
	m := c.module
	if expr, ok := c.expressions[id]; ok {
		return expr
	}
	if con := m.Constant(id); con != nil {
		// Specialization constants are declared by name; ordinary
		// constants inline their value.
		if con.Specialization {
			return c.toName(id)
		}
		return c.constantExpression(con)
	}
	if m.Variable(id) != nil {
		return c.toName(id)
	}
	if _, ok := m.Undefs[id]; ok {
		return c.toName(id)
	}
	return c.toName(id)
}

// toEnclosedExpression wraps an expression in parentheses when member
// or index access could bind wrongly against it.
func (c *Compiler) toEnclosedExpression(id spirv.Id) string {
	expr := c.toExpression(id)
	if needsEnclosing(expr) {
		return "(" + expr + ")"
	}
	return expr
}

func needsEnclosing(expr string) bool {
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		return false
	}
	return strings.ContainsAny(expr, " ?:")
}

// emitOp binds an instruction result: forwarded results live on as
// bare expressions, everything else lands in a named temporary.
func (c *Compiler) emitOp(resultTypeID, id spirv.Id, expr string, forward bool) {
	c.resultTypes[id] = resultTypeID
	if forward && !c.forcedTemporaries[id] {
		c.expressions[id] = expr
		return
	}
	name := c.toName(id)
	c.statement("%s = %s;", c.declareTemporary(resultTypeID, id), expr)
	c.expressions[id] = name
}

// declareTemporary returns the declaration prefix for a temporary of
// the result type.
func (c *Compiler) declareTemporary(resultTypeID, id spirv.Id) string {
	typ := c.module.Type(resultTypeID)
	if typ == nil {
		c.internalError("unknown result type %d", resultTypeID)
	}
	return c.typeToGlsl(typ) + " " + c.toName(id) + c.typeToArrayGlsl(typ)
}

// shouldForward reports whether the id's value may be inlined at its
// use sites rather than pinned in a temporary.
func (c *Compiler) shouldForward(id spirv.Id) bool {
	return !c.forcedTemporaries[id]
}

// emitAccessChain renders an OpAccessChain result, rewriting flattened
// interface members to their qualified aliases and tracking packed and
// row-major members for unpacking at load time.
func (c *Compiler) emitAccessChain(inst *spirv.Instruction) {
	m := c.module
	resultTypeID := inst.Id(0)
	id := inst.Id(1)
	baseID := inst.Id(2)

	expr := c.toUnconvertedExpression(baseID)
	cur := c.expressionType(baseID)
	if cur == nil {
		c.internalError("access chain base %d has unknown type", baseID)
	}
	// The base is a pointer; walk its value type.
	if cur.Pointer && cur.Parent != 0 {
		if pointee := m.Type(cur.Parent); pointee != nil {
			cur = pointee
		}
	}

	// Remember the root variable for image/atomic bookkeeping.
	if v := c.maybeGetBackingVariable(baseID); v != nil {
		c.exprBackingVar[id] = v.Self
	}

	rowMajor := c.needTranspose[baseID]
	var packedTypeID spirv.Id

	for opIdx := 3; opIdx < len(inst.Words); opIdx++ {
		idxID := inst.Id(opIdx)
		switch {
		case cur.IsArray():
			// One index strips one array dimension; the parent chain
			// holds the remaining type.
			expr += "[" + c.toExpression(idxID) + "]"
			if cur.Parent != 0 {
				if elem := m.Type(cur.Parent); elem != nil {
					cur = elem
				}
			}

		case cur.Base == spirv.BaseStruct:
			idxConst := m.Constant(idxID)
			if idxConst == nil {
				c.fail(ErrInvalidOpcodeArg, "struct access chain index %d is not a constant", idxID)
			}
			mbrIdx := int(idxConst.ScalarValue())
			if mbrIdx >= len(cur.MemberTypes) {
				c.fail(ErrInvalidOpcodeArg, "struct access chain index %d out of range", mbrIdx)
			}

			if qual := m.MemberMeta(cur.Self, mbrIdx).QualifiedAlias; qual != "" && c.processingEntryPoint {
				expr = qual
			} else {
				expr += "." + m.MemberName(cur.Self, mbrIdx)
			}

			if m.HasMemberDecoration(cur.Self, mbrIdx, spirv.DecorationRowMajor) {
				rowMajor = true
			}
			if c.memberIsPackedType(cur, mbrIdx) {
				packedTypeID = cur.MemberTypes[mbrIdx]
			} else {
				packedTypeID = 0
			}

			next := m.Type(cur.MemberTypes[mbrIdx])
			if next == nil {
				c.internalError("struct member type %d unknown", cur.MemberTypes[mbrIdx])
			}
			cur = next

		case cur.Columns > 1:
			expr += "[" + c.toExpression(idxID) + "]"
			if cur.Parent != 0 {
				if col := m.Type(cur.Parent); col != nil {
					cur = col
				}
			}

		case cur.VecSize > 1:
			if idxConst := m.Constant(idxID); idxConst != nil {
				expr += indexToSwizzle(idxConst.ScalarValue())
			} else {
				expr += "[" + c.toExpression(idxID) + "]"
			}
			if cur.Parent != 0 {
				if scalar := m.Type(cur.Parent); scalar != nil {
					cur = scalar
				}
			}

		default:
			expr += "[" + c.toExpression(idxID) + "]"
		}
	}

	c.expressions[id] = expr
	c.resultTypes[id] = resultTypeID
	if rowMajor {
		c.needTranspose[id] = true

		typ := m.Type(resultTypeID)
		if typ != nil && typ.IsMatrix() {
			c.addConvertRowMajorMatrixFunction(typ.Columns, typ.VecSize)
		}
	}
	if packedTypeID != 0 {
		c.packedType[id] = packedTypeID
	}
}

// indexToSwizzle maps a constant component index to swizzle syntax.
func indexToSwizzle(index uint32) string {
	switch index {
	case 0:
		return ".x"
	case 1:
		return ".y"
	case 2:
		return ".z"
	case 3:
		return ".w"
	}
	return ".x"
}

// emitLoad renders OpLoad. Packed members are unpacked by wrapping in
// a constructor of the unpacked type.
func (c *Compiler) emitLoad(inst *spirv.Instruction) {
	resultTypeID := inst.Id(0)
	id := inst.Id(1)
	ptrID := inst.Id(2)

	if v := c.maybeGetBackingVariable(ptrID); v != nil {
		c.exprBackingVar[id] = v.Self
	}
	if c.needTranspose[ptrID] {
		c.needTranspose[id] = true
	}

	c.expressions[id] = c.loadExpression(ptrID)
	c.loadSources[id] = ptrID
	c.resultTypes[id] = resultTypeID
}

// loadExpression derives the value expression read through a pointer.
func (c *Compiler) loadExpression(ptrID spirv.Id) string {
	expr := c.toUnconvertedExpression(ptrID)
	if packedID, ok := c.packedType[ptrID]; ok {
		if typ := c.module.Type(packedID); typ != nil {
			expr = c.unpackExpressionType(expr, typ)
		}
	}
	return expr
}

// unpackExpressionType converts a packed expression to its unpacked
// form by wrapping it in a constructor.
func (c *Compiler) unpackExpressionType(expr string, typ *spirv.Type) string {
	return c.typeToGlsl(typ) + "(" + expr + ")"
}

// Binary and unary operator emission.

func (c *Compiler) emitBinaryOp(resultTypeID, id, op0, op1 spirv.Id, op string) {
	forward := c.shouldForward(op0) && c.shouldForward(op1)
	expr := "(" + c.toExpression(op0) + " " + op + " " + c.toExpression(op1) + ")"
	c.emitOp(resultTypeID, id, expr, forward)
}

func (c *Compiler) emitUnaryOp(resultTypeID, id, op0 spirv.Id, op string) {
	expr := op + c.toEnclosedExpression(op0)
	c.emitOp(resultTypeID, id, expr, c.shouldForward(op0))
}

func (c *Compiler) emitUnaryFuncOp(resultTypeID, id, op0 spirv.Id, fn string) {
	expr := fn + "(" + c.toExpression(op0) + ")"
	c.emitOp(resultTypeID, id, expr, c.shouldForward(op0))
}

func (c *Compiler) emitBinaryFuncOp(resultTypeID, id, op0, op1 spirv.Id, fn string) {
	forward := c.shouldForward(op0) && c.shouldForward(op1)
	expr := fn + "(" + c.toExpression(op0) + ", " + c.toExpression(op1) + ")"
	c.emitOp(resultTypeID, id, expr, forward)
}

func (c *Compiler) emitTrinaryFuncOp(resultTypeID, id, op0, op1, op2 spirv.Id, fn string) {
	forward := c.shouldForward(op0) && c.shouldForward(op1) && c.shouldForward(op2)
	expr := fn + "(" + c.toExpression(op0) + ", " + c.toExpression(op1) + ", " + c.toExpression(op2) + ")"
	c.emitOp(resultTypeID, id, expr, forward)
}

func (c *Compiler) emitQuaternaryFuncOp(resultTypeID, id, op0, op1, op2, op3 spirv.Id, fn string) {
	forward := c.shouldForward(op0) && c.shouldForward(op1) &&
		c.shouldForward(op2) && c.shouldForward(op3)
	expr := fn + "(" + c.toExpression(op0) + ", " + c.toExpression(op1) + ", " +
		c.toExpression(op2) + ", " + c.toExpression(op3) + ")"
	c.emitOp(resultTypeID, id, expr, forward)
}

// emitCast renders a value conversion through constructor syntax.
func (c *Compiler) emitCast(resultTypeID, id, op0 spirv.Id) {
	typ := c.module.Type(resultTypeID)
	if typ == nil {
		c.internalError("cast to unknown type %d", resultTypeID)
	}
	expr := c.typeToGlsl(typ) + "(" + c.toExpression(op0) + ")"
	c.emitOp(resultTypeID, id, expr, c.shouldForward(op0))
}

// emitCompositeConstruct renders OpCompositeConstruct. Structs and
// arrays use initializer lists; vectors and matrices use constructor
// syntax.
func (c *Compiler) emitCompositeConstruct(inst *spirv.Instruction) {
	m := c.module
	resultTypeID := inst.Id(0)
	id := inst.Id(1)
	typ := m.Type(resultTypeID)
	if typ == nil {
		c.internalError("composite construct of unknown type %d", resultTypeID)
	}

	parts := make([]string, 0, len(inst.Words)-2)
	forward := true
	for opIdx := 2; opIdx < len(inst.Words); opIdx++ {
		parts = append(parts, c.toExpression(inst.Id(opIdx)))
		forward = forward && c.shouldForward(inst.Id(opIdx))
	}

	var expr string
	if typ.Base == spirv.BaseStruct || typ.IsArray() {
		expr = "{" + strings.Join(parts, ", ") + "}"
	} else {
		expr = c.typeToGlsl(typ) + "(" + strings.Join(parts, ", ") + ")"
	}
	c.emitOp(resultTypeID, id, expr, forward)
}

// emitCompositeExtract renders OpCompositeExtract with literal
// indices.
func (c *Compiler) emitCompositeExtract(inst *spirv.Instruction) {
	m := c.module
	resultTypeID := inst.Id(0)
	id := inst.Id(1)
	baseID := inst.Id(2)

	expr := c.toEnclosedExpression(baseID)
	cur := c.expressionType(baseID)

	for opIdx := 3; opIdx < len(inst.Words); opIdx++ {
		index := inst.Words[opIdx]
		if cur == nil {
			expr += "[" + formatUint(index) + "]"
			continue
		}
		switch {
		case cur.IsArray():
			expr += "[" + formatUint(index) + "]"
			if cur.Parent != 0 {
				cur = m.Type(cur.Parent)
			}
		case cur.Base == spirv.BaseStruct:
			expr += "." + m.MemberName(cur.Self, int(index))
			next := m.Type(cur.MemberTypes[index])
			cur = next
		case cur.Columns > 1:
			expr += "[" + formatUint(index) + "]"
			if cur.Parent != 0 {
				cur = m.Type(cur.Parent)
			}
		case cur.VecSize > 1:
			expr += indexToSwizzle(index)
			if cur.Parent != 0 {
				cur = m.Type(cur.Parent)
			}
		default:
			expr += "[" + formatUint(index) + "]"
		}
	}

	c.emitOp(resultTypeID, id, expr, c.shouldForward(baseID))
}

func formatUint(v uint32) string {
	const digits = "0123456789"
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v%10]
		v /= 10
	}
	return string(buf[i:])
}

// emitVectorShuffle renders OpVectorShuffle. Shuffles drawing from two
// distinct vectors must land in a named temporary.
func (c *Compiler) emitVectorShuffle(inst *spirv.Instruction) {
	m := c.module
	resultTypeID := inst.Id(0)
	id := inst.Id(1)
	vec0 := inst.Id(2)
	vec1 := inst.Id(3)

	typ := m.Type(resultTypeID)
	vec0Type := c.expressionType(vec0)
	vec0Size := uint32(4)
	if vec0Type != nil {
		vec0Size = vec0Type.VecSize
	}

	singleVector := true
	for opIdx := 4; opIdx < len(inst.Words); opIdx++ {
		if inst.Words[opIdx] >= vec0Size {
			singleVector = false
			break
		}
	}

	if singleVector || vec0 == vec1 {
		expr := c.toEnclosedExpression(vec0) + "."
		for opIdx := 4; opIdx < len(inst.Words); opIdx++ {
			expr += indexToSwizzle(inst.Words[opIdx] % vec0Size)[1:]
		}
		c.emitOp(resultTypeID, id, expr, c.shouldForward(vec0))
		return
	}

	// Two-vector shuffles always use a named temporary.
	parts := make([]string, 0, len(inst.Words)-4)
	for opIdx := 4; opIdx < len(inst.Words); opIdx++ {
		sel := inst.Words[opIdx]
		if sel < vec0Size {
			parts = append(parts, c.toEnclosedExpression(vec0)+indexToSwizzle(sel))
		} else {
			parts = append(parts, c.toEnclosedExpression(vec1)+indexToSwizzle(sel-vec0Size))
		}
	}
	expr := c.typeToGlsl(typ) + "(" + strings.Join(parts, ", ") + ")"
	c.forcedTemporaries[id] = true
	c.emitOp(resultTypeID, id, expr, false)
}
