package msl

import (
	"fmt"
	"strings"

	"github.com/gogpu/spvmsl/spirv"
)

// expressionTypeID resolves the type Id of any expression-usable id.
func (c *Compiler) expressionTypeID(id spirv.Id) spirv.Id {
	m := c.module
	if v := m.Variable(id); v != nil {
		return v.TypeID
	}
	if con := m.Constant(id); con != nil {
		return con.TypeID
	}
	if typeID, ok := c.resultTypes[id]; ok {
		return typeID
	}
	if typeID, ok := m.Undefs[id]; ok {
		return typeID
	}
	return 0
}

// emitInstruction dispatches one instruction to its MSL emission.
//
//nolint:gocyclo,cyclop,funlen // Opcode dispatch requires handling every opcode.
func (c *Compiler) emitInstruction(inst *spirv.Instruction) {
	ops := inst.Words
	opcode := inst.Op

	switch opcode {

	// Comparisons
	case spirv.OpIEqual, spirv.OpLogicalEqual, spirv.OpFOrdEqual, spirv.OpFUnordEqual:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "==")

	case spirv.OpINotEqual, spirv.OpLogicalNotEqual, spirv.OpFOrdNotEqual, spirv.OpFUnordNotEqual:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "!=")

	case spirv.OpUGreaterThan, spirv.OpSGreaterThan, spirv.OpFOrdGreaterThan:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), ">")

	case spirv.OpUGreaterThanEqual, spirv.OpSGreaterThanEqual, spirv.OpFOrdGreaterThanEqual:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), ">=")

	case spirv.OpULessThan, spirv.OpSLessThan, spirv.OpFOrdLessThan:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "<")

	case spirv.OpULessThanEqual, spirv.OpSLessThanEqual, spirv.OpFOrdLessThanEqual:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "<=")

	// Derivatives
	case spirv.OpDPdx, spirv.OpDPdxFine, spirv.OpDPdxCoarse:
		c.emitUnaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), "dfdx")

	case spirv.OpDPdy, spirv.OpDPdyFine, spirv.OpDPdyCoarse:
		c.emitUnaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), "dfdy")

	case spirv.OpFwidth, spirv.OpFwidthFine, spirv.OpFwidthCoarse:
		c.emitUnaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), "fwidth")

	// Bitfield
	case spirv.OpBitFieldInsert:
		c.emitQuaternaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), inst.Id(4), inst.Id(5), "insert_bits")

	case spirv.OpBitFieldSExtract, spirv.OpBitFieldUExtract:
		c.emitTrinaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), inst.Id(4), "extract_bits")

	case spirv.OpBitReverse:
		c.emitUnaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), "reverse_bits")

	case spirv.OpBitCount:
		c.emitUnaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), "popcount")

	// Atomics
	case spirv.OpAtomicExchange:
		c.emitAtomicFuncOp(inst.Id(0), inst.Id(1), "atomic_exchange_explicit", inst.Id(2),
			atomicOperand{}, atomicOperand{id: inst.Id(5)})

	case spirv.OpAtomicCompareExchange, spirv.OpAtomicCompareExchangeWeak:
		c.emitAtomicFuncOp(inst.Id(0), inst.Id(1), "atomic_compare_exchange_weak_explicit", inst.Id(2),
			atomicOperand{id: inst.Id(7)}, atomicOperand{id: inst.Id(6), secondOrder: true})

	case spirv.OpAtomicLoad:
		c.emitAtomicFuncOp(inst.Id(0), inst.Id(1), "atomic_load_explicit", inst.Id(2),
			atomicOperand{}, atomicOperand{})

	case spirv.OpAtomicStore:
		// The pointer operand intentionally doubles as result type and
		// result id here, mirroring the reference emission.
		c.emitAtomicFuncOp(c.expressionTypeID(inst.Id(0)), inst.Id(0), "atomic_store_explicit", inst.Id(0),
			atomicOperand{}, atomicOperand{id: inst.Id(3)})

	case spirv.OpAtomicIIncrement:
		c.emitAtomicFuncOp(inst.Id(0), inst.Id(1), "atomic_fetch_add_explicit", inst.Id(2),
			atomicOperand{}, atomicOperand{literal: "1"})

	case spirv.OpAtomicIDecrement:
		c.emitAtomicFuncOp(inst.Id(0), inst.Id(1), "atomic_fetch_sub_explicit", inst.Id(2),
			atomicOperand{}, atomicOperand{literal: "1"})

	case spirv.OpAtomicIAdd:
		c.emitAtomicFuncOp(inst.Id(0), inst.Id(1), "atomic_fetch_add_explicit", inst.Id(2),
			atomicOperand{}, atomicOperand{id: inst.Id(5)})

	case spirv.OpAtomicISub:
		c.emitAtomicFuncOp(inst.Id(0), inst.Id(1), "atomic_fetch_sub_explicit", inst.Id(2),
			atomicOperand{}, atomicOperand{id: inst.Id(5)})

	case spirv.OpAtomicSMin, spirv.OpAtomicUMin:
		c.emitAtomicFuncOp(inst.Id(0), inst.Id(1), "atomic_fetch_min_explicit", inst.Id(2),
			atomicOperand{}, atomicOperand{id: inst.Id(5)})

	case spirv.OpAtomicSMax, spirv.OpAtomicUMax:
		c.emitAtomicFuncOp(inst.Id(0), inst.Id(1), "atomic_fetch_max_explicit", inst.Id(2),
			atomicOperand{}, atomicOperand{id: inst.Id(5)})

	case spirv.OpAtomicAnd:
		c.emitAtomicFuncOp(inst.Id(0), inst.Id(1), "atomic_fetch_and_explicit", inst.Id(2),
			atomicOperand{}, atomicOperand{id: inst.Id(5)})

	case spirv.OpAtomicOr:
		c.emitAtomicFuncOp(inst.Id(0), inst.Id(1), "atomic_fetch_or_explicit", inst.Id(2),
			atomicOperand{}, atomicOperand{id: inst.Id(5)})

	case spirv.OpAtomicXor:
		c.emitAtomicFuncOp(inst.Id(0), inst.Id(1), "atomic_fetch_xor_explicit", inst.Id(2),
			atomicOperand{}, atomicOperand{id: inst.Id(5)})

	// Images. Reads are fetches in Metal.
	case spirv.OpImageRead:
		imgID := inst.Id(2)
		if pVar := c.maybeGetBackingVariable(imgID); pVar != nil &&
			c.module.HasDecoration(pVar.Self, spirv.DecorationNonReadable) {
			c.module.UnsetDecoration(pVar.Self, spirv.DecorationNonReadable)
			c.forceRecompile = true
		}
		c.emitTextureOp(inst)

	case spirv.OpImageWrite:
		c.emitImageWrite(inst)

	case spirv.OpImageQuerySize, spirv.OpImageQuerySizeLod:
		c.emitImageQuerySize(inst)

	case spirv.OpImageQueryLevels:
		c.emitImageQueryCount(inst, "mip_levels")

	case spirv.OpImageQuerySamples:
		c.emitImageQueryCount(inst, "samples")

	case spirv.OpImageSampleImplicitLod, spirv.OpImageSampleExplicitLod,
		spirv.OpImageSampleDrefImplicitLod, spirv.OpImageSampleDrefExplicitLod,
		spirv.OpImageSampleProjImplicitLod, spirv.OpImageSampleProjExplicitLod,
		spirv.OpImageSampleProjDrefImplicitLod, spirv.OpImageSampleProjDrefExplicitLod,
		spirv.OpImageFetch, spirv.OpImageGather, spirv.OpImageDrefGather:
		c.emitTextureOp(inst)

	case spirv.OpSampledImage:
		c.emitSampledImageOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3))

	case spirv.OpImage:
		c.expressions[inst.Id(1)] = c.toExpression(inst.Id(2))
		c.resultTypes[inst.Id(1)] = inst.Id(0)
		if v := c.maybeGetBackingVariable(inst.Id(2)); v != nil {
			c.exprBackingVar[inst.Id(1)] = v.Self
		}

	// Casting
	case spirv.OpQuantizeToF16:
		c.emitQuantizeToF16(inst)

	case spirv.OpConvertFToU, spirv.OpConvertFToS, spirv.OpConvertSToF, spirv.OpConvertUToF,
		spirv.OpUConvert, spirv.OpSConvert, spirv.OpFConvert:
		c.emitCast(inst.Id(0), inst.Id(1), inst.Id(2))

	case spirv.OpBitcast:
		outType := c.module.Type(inst.Id(0))
		inType := c.expressionType(inst.Id(2))
		op := ""
		if outType != nil && inType != nil {
			op = c.bitcastGlslOp(outType, inType)
		}
		if op == "" {
			c.emitCast(inst.Id(0), inst.Id(1), inst.Id(2))
		} else {
			expr := op + "(" + c.toExpression(inst.Id(2)) + ")"
			c.emitOp(inst.Id(0), inst.Id(1), expr, c.shouldForward(inst.Id(2)))
		}

	case spirv.OpStore:
		if c.maybeEmitInputStructAssignment(inst.Id(0), inst.Id(1)) {
			break
		}
		if c.maybeEmitArrayAssignment(inst.Id(0), inst.Id(1)) {
			break
		}
		c.statement("%s = %s;", c.toUnconvertedExpression(inst.Id(0)), c.toExpression(inst.Id(1)))

	case spirv.OpLoad:
		c.emitLoad(inst)

	case spirv.OpAccessChain, spirv.OpInBoundsAccessChain:
		c.emitAccessChain(inst)

	// Compute barriers
	case spirv.OpMemoryBarrier:
		c.emitBarrier(0, inst.Id(0), inst.Id(1))

	case spirv.OpControlBarrier:
		// A memory barrier is also a control barrier in MSL, so a
		// control barrier right after one would be redundant.
		if c.previousOpcode != spirv.OpMemoryBarrier {
			c.emitBarrier(inst.Id(0), inst.Id(1), inst.Id(2))
		}

	case spirv.OpVectorTimesMatrix, spirv.OpMatrixTimesVector:
		mtxID := inst.Id(3)
		if opcode == spirv.OpMatrixTimesVector {
			mtxID = inst.Id(2)
		}
		mtxType := c.expressionType(mtxID)
		if c.needTranspose[mtxID] && mtxType != nil && mtxType.Columns == mtxType.VecSize {
			// Square matrices that need a transpose just flip the
			// multiply order instead.
			c.needTranspose[mtxID] = false
			c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(3), inst.Id(2), "*")
			c.needTranspose[mtxID] = true
		} else {
			c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "*")
		}

	// Arithmetic
	case spirv.OpIAdd, spirv.OpFAdd:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "+")

	case spirv.OpISub, spirv.OpFSub:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "-")

	case spirv.OpIMul, spirv.OpFMul, spirv.OpVectorTimesScalar, spirv.OpMatrixTimesScalar,
		spirv.OpMatrixTimesMatrix:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "*")

	case spirv.OpUDiv, spirv.OpSDiv, spirv.OpFDiv:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "/")

	case spirv.OpUMod, spirv.OpSMod, spirv.OpSRem:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "%")

	case spirv.OpFRem:
		c.emitBinaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "fmod")

	case spirv.OpFMod:
		c.emitBinaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "mod")

	case spirv.OpDot:
		c.emitBinaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "dot")

	case spirv.OpTranspose:
		c.emitUnaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), "transpose")

	case spirv.OpSNegate, spirv.OpFNegate:
		c.emitUnaryOp(inst.Id(0), inst.Id(1), inst.Id(2), "-")

	case spirv.OpLogicalNot:
		c.emitUnaryOp(inst.Id(0), inst.Id(1), inst.Id(2), "!")

	case spirv.OpNot:
		c.emitUnaryOp(inst.Id(0), inst.Id(1), inst.Id(2), "~")

	case spirv.OpLogicalAnd:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "&&")

	case spirv.OpLogicalOr:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "||")

	case spirv.OpBitwiseAnd:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "&")

	case spirv.OpBitwiseOr:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "|")

	case spirv.OpBitwiseXor:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "^")

	case spirv.OpShiftLeftLogical:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), "<<")

	case spirv.OpShiftRightLogical, spirv.OpShiftRightArithmetic:
		c.emitBinaryOp(inst.Id(0), inst.Id(1), inst.Id(2), inst.Id(3), ">>")

	case spirv.OpSelect:
		forward := c.shouldForward(inst.Id(2)) && c.shouldForward(inst.Id(3)) && c.shouldForward(inst.Id(4))
		expr := "(" + c.toExpression(inst.Id(2)) + " ? " + c.toExpression(inst.Id(3)) +
			" : " + c.toExpression(inst.Id(4)) + ")"
		c.emitOp(inst.Id(0), inst.Id(1), expr, forward)

	case spirv.OpAny:
		c.emitUnaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), "any")

	case spirv.OpAll:
		c.emitUnaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), "all")

	case spirv.OpIsNan:
		c.emitUnaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), "isnan")

	case spirv.OpIsInf:
		c.emitUnaryFuncOp(inst.Id(0), inst.Id(1), inst.Id(2), "isinf")

	case spirv.OpCompositeConstruct:
		c.emitCompositeConstruct(inst)

	case spirv.OpCompositeExtract:
		c.emitCompositeExtract(inst)

	case spirv.OpVectorShuffle:
		c.emitVectorShuffle(inst)

	case spirv.OpCopyObject:
		c.expressions[inst.Id(1)] = c.toExpression(inst.Id(2))
		c.resultTypes[inst.Id(1)] = inst.Id(0)
		if v := c.maybeGetBackingVariable(inst.Id(2)); v != nil {
			c.exprBackingVar[inst.Id(1)] = v.Self
		}

	case spirv.OpFunctionCall:
		c.emitFunctionCall(inst)

	case spirv.OpExtInst:
		if c.module.ExtInstImports[inst.Id(2)] == "GLSL.std.450" {
			c.emitGlslOp(inst.Id(0), inst.Id(1), spirv.GLSLstd450(ops[3]), inst.Words[4:])
		} else {
			c.emitOp(inst.Id(0), inst.Id(1), "unsupported_ext_inst", false)
		}

	default:
		// Anything undetermined surfaces as an unsupported identifier
		// so the downstream compiler reports it with line context.
		if len(ops) > 1 && c.module.Type(inst.Id(0)) != nil {
			c.emitOp(inst.Id(0), inst.Id(1), fmt.Sprintf("unsupported_op_%d", opcode), false)
		}
	}

	c.previousOpcode = opcode
}

// atomicOperand is one optional value argument of an atomic call.
type atomicOperand struct {
	id      spirv.Id
	literal string

	// secondOrder appends a second memory order argument, used by
	// compare-exchange.
	secondOrder bool
}

func (a atomicOperand) present() bool { return a.id != 0 || a.literal != "" }

// emitAtomicFuncOp emits one atomic intrinsic call. The target is cast
// to a volatile device atomic pointer, the result is always pinned in
// a named temporary, and memory_order_relaxed is the only order Metal
// supports.
func (c *Compiler) emitAtomicFuncOp(resultTypeID, resultID spirv.Id, op string, obj spirv.Id,
	comparator, value atomicOperand) {

	c.forcedTemporaries[resultID] = true

	forward := c.shouldForward(obj)

	objType := c.expressionType(obj)
	if objType == nil {
		c.internalError("atomic target %d has unknown type", obj)
	}

	exp := op + "((volatile device atomic_" + c.typeToGlsl(objType) + "*)&(" +
		c.toExpression(obj) + ")"

	secondOrder := false
	if comparator.present() {
		// The comparator passes by pointer, through a named copy.
		valueTypeID := c.expressionTypeID(value.id)
		c.statement("%s = %s;", c.declareTemporary(valueTypeID, comparator.id), c.toExpression(comparator.id))
		exp += ", &(" + c.toName(comparator.id) + ")"
	}
	if value.present() {
		if value.literal != "" {
			exp += ", " + value.literal
		} else {
			exp += ", " + c.toExpression(value.id)
		}
		secondOrder = value.secondOrder
	}

	exp += ", " + memoryOrder()
	if secondOrder {
		exp += ", " + memoryOrder()
	}
	exp += ")"

	c.emitOp(resultTypeID, resultID, exp, forward)
	c.flushAllAtomicCapableVariables()
}

// memoryOrder returns the only memory order Metal supports.
func memoryOrder() string {
	return "memory_order_relaxed"
}

// flushAllAtomicCapableVariables re-derives forwarded loads whose
// backing variable an atomic may have changed, so later uses re-read
// through the pointer rather than a stale cache.
func (c *Compiler) flushAllAtomicCapableVariables() {
	for id, ptr := range c.loadSources {
		base, ok := c.exprBackingVar[id]
		if !ok {
			continue
		}
		v := c.module.Variable(base)
		if v == nil || c.forcedTemporaries[id] {
			continue
		}
		switch v.Storage {
		case spirv.StorageClassUniform, spirv.StorageClassStorageBuffer,
			spirv.StorageClassWorkgroup, spirv.StorageClassFunction:
			c.expressions[id] = c.loadExpression(ptr)
		}
	}
}

// emitBarrier emits a threadgroup barrier with memory flags chosen
// from the semantics mask. Only compute shaders have barriers.
func (c *Compiler) emitBarrier(idExeScope, idMemScope, idMemSem spirv.Id) {
	m := c.module
	if m.ExecutionModel != spirv.ExecutionModelGLCompute {
		return
	}

	barStmt := "threadgroup_barrier(mem_flags::"

	memSem := spirv.MemorySemanticsMaskNone
	if idMemSem != 0 {
		if con := m.Constant(idMemSem); con != nil {
			memSem = con.ScalarValue()
		}
	}

	switch {
	case memSem&spirv.MemorySemanticsCrossWorkgroupMemoryMask != 0:
		barStmt += "mem_device"
	case memSem&(spirv.MemorySemanticsSubgroupMemoryMask|
		spirv.MemorySemanticsWorkgroupMemoryMask|
		spirv.MemorySemanticsAtomicCounterMemoryMask) != 0:
		barStmt += "mem_threadgroup"
	case memSem&spirv.MemorySemanticsImageMemoryMask != 0:
		barStmt += "mem_texture"
	default:
		barStmt += "mem_none"
	}

	if c.options.IsIOS && c.options.LangVersion.AtLeast(2, 0) {
		barStmt += ", "

		// Use the wider of the two scopes (smaller value).
		scopeOf := func(id spirv.Id) uint32 {
			if id == 0 {
				return spirv.ScopeInvocation
			}
			if con := m.Constant(id); con != nil {
				return con.ScalarValue()
			}
			return spirv.ScopeInvocation
		}
		scope := scopeOf(idExeScope)
		if s := scopeOf(idMemScope); s < scope {
			scope = s
		}
		switch scope {
		case spirv.ScopeCrossDevice, spirv.ScopeDevice:
			barStmt += "memory_scope_device"
		case spirv.ScopeSubgroup, spirv.ScopeInvocation:
			barStmt += "memory_scope_simdgroup"
		default:
			barStmt += "memory_scope_threadgroup"
		}
	}

	barStmt += ");"
	c.statement("%s", barStmt)
}

// maybeEmitInputStructAssignment expands an assignment of an entire
// flattened input struct member by member, mapping each RHS member to
// its name in the stage_in struct. Reports whether it emitted.
func (c *Compiler) maybeEmitInputStructAssignment(idLHS, idRHS spirv.Id) bool {
	m := c.module
	typ := c.expressionType(idRHS)
	if typ == nil || typ.Base != spirv.BaseStruct || typ.IsArray() {
		return false
	}

	pVRHS := c.maybeGetBackingVariable(idRHS)
	if pVRHS == nil || pVRHS.Storage != spirv.StorageClassInput {
		return false
	}

	// The RHS variable's pointer type carries the qualified member
	// names set up by interface flattening.
	rhsTypeSelf := m.Type(pVRHS.TypeID).Self

	for mbrIdx := range typ.MemberTypes {
		expr := c.toName(idLHS) + "." + m.MemberName(typ.Self, mbrIdx) + " = "
		qual := m.MemberMeta(rhsTypeSelf, mbrIdx).QualifiedAlias
		if qual == "" {
			expr += c.toName(idRHS) + "." + m.MemberName(typ.Self, mbrIdx)
		} else {
			expr += qual
		}
		c.statement("%s;", expr)
	}
	return true
}

// maybeEmitArrayAssignment turns an assignment of an entire array into
// a call to the array copy helper, since MSL cannot copy arrays by
// assignment. Reports whether it emitted.
func (c *Compiler) maybeEmitArrayAssignment(idLHS, idRHS spirv.Id) bool {
	// Assignment from an array initializer is fine.
	if c.module.Constant(idRHS) != nil {
		return false
	}
	typ := c.expressionType(idRHS)
	if typ == nil || !typ.IsArray() {
		return false
	}

	c.statement("spvArrayCopy(%s, %s, %d);",
		c.toExpression(idLHS), c.toExpression(idRHS), typ.Array[0])
	return true
}

// emitQuantizeToF16 narrows to half precision and back, keyed on the
// result vector width.
func (c *Compiler) emitQuantizeToF16(inst *spirv.Instruction) {
	resultTypeID := inst.Id(0)
	id := inst.Id(1)
	arg := inst.Id(2)

	typ := c.module.Type(resultTypeID)
	if typ == nil {
		c.internalError("OpQuantizeToF16 with unknown result type %d", resultTypeID)
	}

	var exp string
	switch typ.VecSize {
	case 1:
		exp = "float(half(" + c.toExpression(arg) + "))"
	case 2:
		exp = "float2(half2(" + c.toExpression(arg) + "))"
	case 3:
		exp = "float3(half3(" + c.toExpression(arg) + "))"
	case 4:
		exp = "float4(half4(" + c.toExpression(arg) + "))"
	default:
		c.fail(ErrInvalidOpcodeArg, "illegal argument to OpQuantizeToF16")
	}

	c.emitOp(resultTypeID, id, exp, c.shouldForward(arg))
}

// emitSampledImageOp establishes the sampled image as an expression
// aliasing the texture and remembers its sampler.
func (c *Compiler) emitSampledImageOp(resultTypeID, resultID, imageID, sampID spirv.Id) {
	c.expressions[resultID] = c.toExpression(imageID)
	c.resultTypes[resultID] = resultTypeID
	c.samplerForID[resultID] = sampID
	if v := c.maybeGetBackingVariable(imageID); v != nil {
		c.exprBackingVar[resultID] = v.Self
	}
}

// toSamplerExpression returns the sampler paired with a sampled image
// expression, or a synthesized name derived from the texture.
func (c *Compiler) toSamplerExpression(id spirv.Id) string {
	if sampID, ok := c.samplerForID[id]; ok && sampID != 0 {
		return c.toExpression(sampID)
	}
	if sampID := c.module.Meta(id).Sampler; sampID != 0 {
		return c.toExpression(sampID)
	}
	return c.toExpression(id) + samplerNameSuffix
}

// emitFunctionCall emits a call, passing the explicit arguments first
// and then the pass-through globals added by the rewriter.
func (c *Compiler) emitFunctionCall(inst *spirv.Instruction) {
	m := c.module
	resultTypeID := inst.Id(0)
	id := inst.Id(1)
	funcID := inst.Id(2)
	callee := m.Function(funcID)
	if callee == nil {
		c.internalError("call to unknown function %d", funcID)
	}

	var args []string
	explicitArgs := len(inst.Words) - 3
	for i := 0; i < explicitArgs; i++ {
		args = append(args, c.toFuncCallArg(inst.Id(3+i)))
	}
	// Pass-through globals added by the rewriter trail the explicit
	// arguments.
	for _, param := range callee.Parameters {
		if param.AliasGlobal != 0 {
			args = append(args, c.toFuncCallArg(param.AliasGlobal))
		}
	}

	call := m.Name(funcID) + "(" + strings.Join(args, ", ") + ")"

	retType := m.Type(resultTypeID)
	if retType != nil && retType.Base == spirv.BaseVoid {
		c.statement("%s;", call)
		return
	}

	c.forcedTemporaries[id] = true
	c.emitOp(resultTypeID, id, call, false)
}

// toFuncCallArg renders a call argument, appending the matching
// sampler for sampled-image textures.
func (c *Compiler) toFuncCallArg(id spirv.Id) string {
	arg := c.toExpression(id)
	if v := c.module.Variable(id); v != nil {
		typ := c.module.Type(v.TypeID)
		if typ != nil && typ.Base == spirv.BaseSampledImage && typ.Image.Dim != spirv.DimBuffer {
			arg += ", " + c.toSamplerExpression(id)
		}
	}
	return arg
}
