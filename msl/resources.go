package msl

import (
	"fmt"

	"github.com/gogpu/spvmsl/spirv"
)

// emitResources writes struct declarations, undefined-value constants
// and the synthesized interface blocks.
func (c *Compiler) emitResources() {
	m := c.module

	// Non-interface structs: local function structs and structs nested
	// within uniform and read-write buffers. Pointer records dedupe
	// onto their underlying struct via Self.
	for id := spirv.Id(1); id < m.Bound; id++ {
		typ := m.Type(id)
		if typ == nil {
			continue
		}

		isStruct := typ.Base == spirv.BaseStruct && !typ.IsArray()
		isBlock := m.HasDecoration(typ.Self, spirv.DecorationBlock) ||
			m.HasDecoration(typ.Self, spirv.DecorationBufferBlock)
		isBasicStruct := isStruct && !typ.Pointer && !isBlock

		isInterface := typ.Storage == spirv.StorageClassInput ||
			typ.Storage == spirv.StorageClassOutput ||
			typ.Storage == spirv.StorageClassUniformConstant
		isNonInterfaceBlock := isStruct && typ.Pointer && isBlock && !isInterface

		if !isBasicStruct && !isNonInterfaceBlock {
			continue
		}
		if c.declaredStructs[typ.Self] {
			continue
		}
		c.declaredStructs[typ.Self] = true

		base := typ
		if b := m.Type(typ.Self); b != nil {
			base = b
		}
		if m.HasDecoration(typ.Self, spirv.DecorationCPacked) {
			c.alignStruct(base)
		}
		c.emitStruct(base)
	}

	c.declareUndefinedValues()

	// Interface structs.
	c.emitInterfaceBlock(c.stageInVarID)
	for _, buf := range c.sortedBufferIndices() {
		c.emitInterfaceBlock(c.nonStageInInputVarIDs[buf])
	}
	c.emitInterfaceBlock(c.stageOutVarID)
	c.emitInterfaceBlock(c.stageUniformsVarID)
}

// declareUndefinedValues declares OpUndef ids as zero-filled
// constants. Undefined global memory is not allowed in MSL, and {}
// avoids global constructors, which can break Metal.
func (c *Compiler) declareUndefinedValues() {
	m := c.module
	emitted := false
	for id := spirv.Id(1); id < m.Bound; id++ {
		typeID, ok := m.Undefs[id]
		if !ok {
			continue
		}
		typ := m.Type(typeID)
		if typ == nil {
			continue
		}
		c.statement("constant %s %s%s = {};", c.typeToGlsl(typ), m.Name(id), c.typeToArrayGlsl(typ))
		emitted = true
	}
	if emitted {
		c.statement("")
	}
}

// emitInterfaceBlock declares the struct behind a synthesized
// interface variable, if it has any members.
func (c *Compiler) emitInterfaceBlock(ibVarID spirv.Id) {
	if ibVarID == 0 {
		return
	}
	m := c.module
	ibVar := m.Variable(ibVarID)
	ibType := m.Type(ibVar.TypeID)
	if ibType != nil && len(ibType.MemberTypes) > 0 {
		c.emitStruct(ibType)
	}
}

// emitStruct declares a struct with padded and packed members.
func (c *Compiler) emitStruct(typ *spirv.Type) {
	c.statement("struct %s", c.module.Name(typ.Self))
	c.beginScope()
	for i, mbrTypeID := range typ.MemberTypes {
		c.emitStructMember(typ, mbrTypeID, i)
	}
	c.indent--
	c.statement("};")
	c.statement("")
}

// emitStructMember emits one member, preceded by an inert padding
// field when the layout engine recorded one, and prefixed packed_ when
// the packing pass marked it.
func (c *Compiler) emitStructMember(typ *spirv.Type, memberTypeID spirv.Id, index int) {
	m := c.module
	memberType := m.Type(memberTypeID)
	if memberType == nil {
		c.internalError("struct %d member %d has unknown type", typ.Self, index)
	}

	if padLen := c.structMemberPadding[memberKey{typ.Self, index}]; padLen > 0 {
		c.statement("char pad%d[%d];", index, padLen)
	}

	packPfx := ""
	if c.memberIsPackedType(typ, index) {
		packPfx = "packed_"
	}

	c.statement("%s%s %s%s%s;", packPfx, c.typeToGlsl(memberType), m.MemberName(typ.Self, index),
		c.memberAttributeQualifier(typ, index), c.typeToArrayGlsl(memberType))
}

// memberAttributeQualifier returns the function attribute qualifier of
// an interface struct member, chosen by stage, storage direction and
// built-in status.
//
//nolint:gocyclo,cyclop // One arm per stage and direction combination.
func (c *Compiler) memberAttributeQualifier(typ *spirv.Type, index int) string {
	m := c.module
	model := m.ExecutionModel

	builtin := m.MemberBuiltIn(typ.Self, index)
	isBuiltin := builtin != spirv.BuiltInNone

	// Vertex function inputs
	if model == spirv.ExecutionModelVertex && typ.Storage == spirv.StorageClassInput {
		if isBuiltin {
			switch builtin {
			case spirv.BuiltInVertexID, spirv.BuiltInVertexIndex,
				spirv.BuiltInInstanceID, spirv.BuiltInInstanceIndex:
				return " [[" + c.builtinQualifier(builtin) + "]]"
			default:
				return ""
			}
		}
		if locn := c.orderedMemberLocation(typ.Self, index); locn != unknownLocation {
			return fmt.Sprintf(" [[attribute(%d)]]", locn)
		}
	}

	// Vertex function outputs
	if model == spirv.ExecutionModelVertex && typ.Storage == spirv.StorageClassOutput {
		if isBuiltin {
			switch builtin {
			case spirv.BuiltInPointSize:
				// Only mark the builtin when really rendering points.
				// Metal rejects it in pipelines with any other
				// topology.
				if c.options.EnablePointSizeBuiltin {
					return " [[" + c.builtinQualifier(builtin) + "]]"
				}
				return ""
			case spirv.BuiltInPosition, spirv.BuiltInLayer, spirv.BuiltInClipDistance:
				return " [[" + c.builtinQualifier(builtin) + "]]"
			default:
				return ""
			}
		}
		if locn := c.orderedMemberLocation(typ.Self, index); locn != unknownLocation {
			return fmt.Sprintf(" [[user(locn%d)]]", locn)
		}
	}

	// Fragment function inputs
	if model == spirv.ExecutionModelFragment && typ.Storage == spirv.StorageClassInput {
		if isBuiltin {
			switch builtin {
			case spirv.BuiltInFrontFacing, spirv.BuiltInPointCoord, spirv.BuiltInFragCoord,
				spirv.BuiltInSampleID, spirv.BuiltInSampleMask, spirv.BuiltInLayer:
				return " [[" + c.builtinQualifier(builtin) + "]]"
			default:
				return ""
			}
		}
		if locn := c.orderedMemberLocation(typ.Self, index); locn != unknownLocation {
			return fmt.Sprintf(" [[user(locn%d)]]", locn)
		}
	}

	// Fragment function outputs
	if model == spirv.ExecutionModelFragment && typ.Storage == spirv.StorageClassOutput {
		if isBuiltin {
			switch builtin {
			case spirv.BuiltInSampleMask, spirv.BuiltInFragDepth:
				return " [[" + c.builtinQualifier(builtin) + "]]"
			default:
				return ""
			}
		}
		if locn := c.orderedMemberLocation(typ.Self, index); locn != unknownLocation {
			return fmt.Sprintf(" [[color(%d)]]", locn)
		}
	}

	// Compute function inputs
	if model == spirv.ExecutionModelGLCompute && typ.Storage == spirv.StorageClassInput {
		if isBuiltin {
			switch builtin {
			case spirv.BuiltInGlobalInvocationID, spirv.BuiltInWorkgroupID,
				spirv.BuiltInNumWorkgroups, spirv.BuiltInLocalInvocationID,
				spirv.BuiltInLocalInvocationIndex:
				return " [[" + c.builtinQualifier(builtin) + "]]"
			default:
				return ""
			}
		}
	}

	return ""
}

// orderedMemberLocation returns the member's explicit location, or its
// index when members are assumed ordered by location.
func (c *Compiler) orderedMemberLocation(typeID spirv.Id, index int) uint32 {
	if c.module.HasMemberDecoration(typeID, index, spirv.DecorationLocation) {
		return c.module.MemberDecoration(typeID, index, spirv.DecorationLocation)
	}
	return uint32(index)
}

// emitSpecializationConstants declares Metal function constants for
// scalar specialization constants, with fallbacks to their default
// values, and the workgroup size when it is specialized.
func (c *Compiler) emitSpecializationConstants() {
	m := c.module

	var workgroupSizeID spirv.Id
	for id := spirv.Id(1); id < m.Bound; id++ {
		if con := m.Constant(id); con != nil &&
			m.Meta(id).BuiltIn == spirv.BuiltInWorkgroupSize {
			workgroupSizeID = id
			break
		}
	}

	emitted := false
	for id := spirv.Id(1); id < m.Bound; id++ {
		con := m.Constant(id)
		if con == nil || !con.Specialization || id == workgroupSizeID {
			continue
		}

		typ := m.Type(con.TypeID)
		if typ == nil {
			continue
		}
		scTypeName := c.typeToGlsl(typ)
		scName := m.Name(id)
		scTmpName := scName + "_tmp"

		if typ.VecSize == 1 && typ.Columns == 1 && typ.Base != spirv.BaseStruct && !typ.IsArray() {
			// Only scalar, non-composite values can be function
			// constants.
			c.statement("constant %s %s [[function_constant(%d)]];", scTypeName, scTmpName,
				m.Decoration(id, spirv.DecorationSpecID))
			c.statement("constant %s %s = is_function_constant_defined(%s) ? %s : %s;",
				scTypeName, scName, scTmpName, scTmpName, c.constantExpression(con))
		} else {
			// Composite specialization constants are built from other
			// specialization constants.
			c.statement("constant %s %s = %s;", scTypeName, scName, c.constantExpression(con))
		}
		emitted = true
	}

	if workgroupSizeID != 0 {
		c.statement("constant uint3 %s = %s;", builtinToGlsl(spirv.BuiltInWorkgroupSize),
			c.constantExpression(m.Constant(workgroupSizeID)))
		emitted = true
	}

	if emitted {
		c.statement("")
	}
}
