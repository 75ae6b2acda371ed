package msl

import (
	"fmt"
	"sort"

	"github.com/gogpu/spvmsl/spirv"
)

// replaceIllegalNames renames aliases that collide with Metal keywords
// or Metal Standard Library functions by appending "0".
func (c *Compiler) replaceIllegalNames() {
	m := c.module
	for id := spirv.Id(1); id < m.Bound; id++ {
		switch {
		case m.Variable(id) != nil:
			if isReservedVariableName(m.Name(id)) {
				m.SetName(id, m.Name(id)+"0")
			}
		case m.Function(id) != nil:
			if isReservedFunctionName(m.Name(id)) {
				m.SetName(id, m.Name(id)+"0")
			}
		case m.Type(id) != nil:
			meta := m.Meta(id)
			for i := range meta.Members {
				if isReservedVariableName(meta.Members[i].Alias) {
					meta.Members[i].Alias += "0"
				}
			}
		}
	}

	// Keep the entry point name and its alias in sync.
	if isReservedFunctionName(m.EntryPointName) {
		m.EntryPointName += "0"
	}
	m.SetName(m.EntryPoint, m.EntryPointName)
}

// updateActiveInterface computes the set of interface variables and
// built-ins referenced by code reachable from the entry point.
func (c *Compiler) updateActiveInterface() {
	c.activeInterfaceVars = make(map[spirv.Id]bool)
	c.activeInputBuiltins = make(map[spirv.BuiltIn]bool)
	c.activeOutputBuiltins = make(map[spirv.BuiltIn]bool)

	m := c.module
	visited := make(map[spirv.Id]bool)
	var walk func(funcID spirv.Id)
	walk = func(funcID spirv.Id) {
		if visited[funcID] {
			return
		}
		visited[funcID] = true
		fn := m.Function(funcID)
		if fn == nil {
			return
		}
		for _, blockID := range fn.Blocks {
			block := m.Block(blockID)
			if block == nil {
				continue
			}
			for i := range block.Instructions {
				inst := &block.Instructions[i]
				if inst.Op == spirv.OpFunctionCall {
					walk(inst.Id(2))
				}
				for _, w := range inst.Words {
					c.markVariableUse(spirv.Id(w), inst)
				}
			}
		}
	}
	walk(m.EntryPoint)
}

// markVariableUse records that an interface variable, and possibly a
// member built-in reached through an access chain, is live.
func (c *Compiler) markVariableUse(id spirv.Id, inst *spirv.Instruction) {
	m := c.module
	v := m.Variable(id)
	if v == nil {
		return
	}
	switch v.Storage {
	case spirv.StorageClassInput, spirv.StorageClassOutput,
		spirv.StorageClassUniform, spirv.StorageClassUniformConstant,
		spirv.StorageClassPushConstant, spirv.StorageClassStorageBuffer:
		c.activeInterfaceVars[id] = true
	default:
		return
	}

	builtins := c.activeInputBuiltins
	if v.Storage == spirv.StorageClassOutput {
		builtins = c.activeOutputBuiltins
	}

	if m.HasDecoration(id, spirv.DecorationBuiltIn) {
		builtins[spirv.BuiltIn(m.Decoration(id, spirv.DecorationBuiltIn))] = true
		return
	}

	typ := m.Type(v.TypeID)
	if typ == nil || typ.Base != spirv.BaseStruct {
		return
	}

	// An access chain with a constant first index pins down a single
	// member; any other reference makes every member built-in live.
	switch inst.Op {
	case spirv.OpAccessChain, spirv.OpInBoundsAccessChain:
		if inst.Id(2) == id && len(inst.Words) > 3 {
			if idxConst := m.Constant(inst.Id(3)); idxConst != nil {
				idx := int(idxConst.ScalarValue())
				if b := m.MemberBuiltIn(typ.Self, idx); b != spirv.BuiltInNone {
					builtins[b] = true
				}
				return
			}
		}
		fallthrough
	default:
		for i := range typ.MemberTypes {
			if b := m.MemberBuiltIn(typ.Self, i); b != spirv.BuiltInNone {
				builtins[b] = true
			}
		}
	}
}

// hasActiveBuiltin reports whether the built-in is live for the
// storage direction.
func (c *Compiler) hasActiveBuiltin(builtin spirv.BuiltIn, storage spirv.StorageClass) bool {
	if storage == spirv.StorageClassOutput {
		return c.activeOutputBuiltins[builtin]
	}
	return c.activeInputBuiltins[builtin]
}

// isBuiltinVariable reports whether the variable is decorated BuiltIn
// or is a block whose members all are.
func (c *Compiler) isBuiltinVariable(v *spirv.Variable) bool {
	m := c.module
	if m.HasDecoration(v.Self, spirv.DecorationBuiltIn) {
		return true
	}
	typ := m.Type(v.TypeID)
	if typ == nil || typ.Base != spirv.BaseStruct || len(typ.MemberTypes) == 0 {
		return false
	}
	for i := range typ.MemberTypes {
		if m.MemberBuiltIn(typ.Self, i) == spirv.BuiltInNone {
			return false
		}
	}
	return true
}

// markLocationAsUsedByShader flags the vertex attribute record at the
// location, if any, as consumed.
func (c *Compiler) markLocationAsUsedByShader(location uint32, storage spirv.StorageClass) {
	if c.module.ExecutionModel != spirv.ExecutionModelVertex || storage != spirv.StorageClassInput {
		return
	}
	if va := c.vtxAttrsByLocation[location]; va != nil {
		va.UsedByShader = true
	}
}

// addInterfaceBlock synthesizes the struct and variable carrying all
// live interface variables of one storage class, flattening SPIR-V
// blocks into individual members and rewriting the original variables'
// qualified aliases to point into the new struct. Returns the Id of
// the new variable, or zero if no variable qualified.
func (c *Compiler) addInterfaceBlock(storage spirv.StorageClass) spirv.Id {
	m := c.module

	// Accumulate the variables that should appear in the interface
	// struct. Builtin variables stay separate except in the output
	// block.
	var vars []*spirv.Variable
	inclBuiltins := storage == spirv.StorageClassOutput
	for id := spirv.Id(1); id < m.Bound; id++ {
		v := m.Variable(id)
		if v == nil || v.Storage != storage {
			continue
		}
		typ := m.Type(v.TypeID)
		if typ == nil || !typ.Pointer {
			continue
		}
		if !c.activeInterfaceVars[id] {
			continue
		}
		if c.isBuiltinVariable(v) && !inclBuiltins {
			continue
		}
		vars = append(vars, v)
	}
	if len(vars) == 0 {
		return 0
	}

	next := m.IncreaseBound(3)
	ibTypeID := next
	ibVarID := next + 1
	initializerID := next + 2

	ibType := m.SetType(ibTypeID)
	ibType.Base = spirv.BaseStruct
	ibType.Storage = storage
	m.SetDecoration(ibTypeID, spirv.DecorationBlock)

	ibVar := m.SetVariable(ibVarID, ibTypeID, storage)
	ibVar.Initializer = initializerID

	var ibVarRef string
	switch storage {
	case spirv.StorageClassInput:
		ibVarRef = stageInVarName

	case spirv.StorageClassOutput:
		ibVarRef = stageOutVarName

		// The entry function owns the output block and every return
		// hands it back.
		entryFunc := m.Function(m.EntryPoint)
		entryFunc.AddLocalVariable(ibVarID)
		for _, blockID := range entryFunc.Blocks {
			if blk := m.Block(blockID); blk != nil && blk.Terminator == spirv.TerminatorReturn {
				blk.ReturnValue = ibVarID
			}
		}

	case spirv.StorageClassUniformConstant:
		ibVarRef = stageUniformVarName
		c.activeInterfaceVars[ibVarID] = true
	}

	m.SetName(ibTypeID, c.entryPointName()+"_"+ibVarRef)
	m.SetName(ibVarID, ibVarRef)

	for _, v := range vars {
		typeID := v.TypeID
		typ := m.Type(typeID)
		switch {
		case typ.Base == spirv.BaseStruct:
			// Flatten the block members into the interface struct.
			for mbrIdx, mbrTypeID := range typ.MemberTypes {
				builtin := m.MemberBuiltIn(typ.Self, mbrIdx)
				isBuiltin := builtin != spirv.BuiltInNone
				mbrType := m.Type(mbrTypeID)

				if c.shouldMoveToInputBuffer(mbrType, isBuiltin, storage) {
					c.moveMemberToInputBuffer(typ, mbrIdx)
					continue
				}
				if isBuiltin && !c.hasActiveBuiltin(builtin, storage) {
					continue
				}

				ibMbrIdx := len(ibType.MemberTypes)
				ibType.MemberTypes = append(ibType.MemberTypes, mbrTypeID)

				mbrName := ensureValidName(c.toQualifiedMemberName(typ, mbrIdx), "m")
				m.SetMemberName(ibTypeID, ibMbrIdx, mbrName)

				qualVarName := ibVarRef + "." + mbrName
				m.MemberMeta(typ.Self, mbrIdx).QualifiedAlias = qualVarName

				switch {
				case m.HasMemberDecoration(typ.Self, mbrIdx, spirv.DecorationLocation):
					locn := m.MemberDecoration(typ.Self, mbrIdx, spirv.DecorationLocation)
					m.SetMemberDecoration(ibTypeID, ibMbrIdx, spirv.DecorationLocation, locn)
					c.markLocationAsUsedByShader(locn, storage)
				case m.HasDecoration(v.Self, spirv.DecorationLocation):
					// A located block spreads incrementing locations
					// over its members.
					locn := m.Decoration(v.Self, spirv.DecorationLocation) + uint32(mbrIdx)
					m.SetMemberDecoration(ibTypeID, ibMbrIdx, spirv.DecorationLocation, locn)
					c.markLocationAsUsedByShader(locn, storage)
				}

				if isBuiltin {
					m.SetMemberDecoration(ibTypeID, ibMbrIdx, spirv.DecorationBuiltIn, uint32(builtin))
					if builtin == spirv.BuiltInPosition {
						c.qualPosVarName = qualVarName
					}
				}
			}

		case isNumericBase(typ.Base):
			isBuiltin := c.isBuiltinVariable(v)
			builtin := spirv.BuiltIn(m.Decoration(v.Self, spirv.DecorationBuiltIn))
			if !m.HasDecoration(v.Self, spirv.DecorationBuiltIn) {
				builtin = spirv.BuiltInNone
			}

			if c.shouldMoveToInputBuffer(typ, isBuiltin, storage) {
				c.moveToInputBuffer(v)
				continue
			}
			if isBuiltin && !c.hasActiveBuiltin(builtin, storage) {
				continue
			}

			ibMbrIdx := len(ibType.MemberTypes)
			ibType.MemberTypes = append(ibType.MemberTypes, typeID)

			mbrName := ensureValidName(m.Name(v.Self), "m")
			m.SetMemberName(ibTypeID, ibMbrIdx, mbrName)

			qualVarName := ibVarRef + "." + mbrName
			m.Meta(v.Self).QualifiedAlias = qualVarName

			if m.HasDecoration(v.Self, spirv.DecorationLocation) {
				locn := m.Decoration(v.Self, spirv.DecorationLocation)
				m.SetMemberDecoration(ibTypeID, ibMbrIdx, spirv.DecorationLocation, locn)
				c.markLocationAsUsedByShader(locn, storage)
			}

			if isBuiltin {
				m.SetMemberDecoration(ibTypeID, ibMbrIdx, spirv.DecorationBuiltIn, uint32(builtin))
				if builtin == spirv.BuiltInPosition {
					c.qualPosVarName = qualVarName
				}
			}
		}
	}

	// Input blocks, vertex and fragment alike, sort by descending
	// location, which Metal matches better for vertex inputs; every
	// other block sorts ascending.
	aspect := sortAspectLocation
	if storage == spirv.StorageClassInput {
		aspect = sortAspectLocationReverse
	}
	c.sortStructMembers(ibType, aspect)

	return ibVarID
}

// isNumericBase reports whether the base kind is a scalar, vector or
// matrix numeric type eligible for interface flattening.
func isNumericBase(b spirv.BaseType) bool {
	switch b {
	case spirv.BaseBool, spirv.BaseChar, spirv.BaseInt, spirv.BaseUInt,
		spirv.BaseInt64, spirv.BaseUInt64, spirv.BaseFloat, spirv.BaseDouble:
		return true
	}
	return false
}

// shouldMoveToInputBuffer reports whether a matrix or array interface
// member must be diverted to a secondary vertex input buffer. Matrices
// and arrays are rejected outright in vertex outputs and fragment
// interfaces.
func (c *Compiler) shouldMoveToInputBuffer(typ *spirv.Type, isBuiltin bool, storage spirv.StorageClass) bool {
	if (!typ.IsMatrix() && !typ.IsArray()) || isBuiltin {
		return false
	}

	switch c.module.ExecutionModel {
	case spirv.ExecutionModelVertex:
		if storage == spirv.StorageClassInput {
			return true
		}
		if storage == spirv.StorageClassOutput {
			c.fail(ErrInvalidInterface, "the vertex function output structure may not include a matrix or array")
		}
	case spirv.ExecutionModelFragment:
		if storage == spirv.StorageClassInput {
			c.fail(ErrInvalidInterface, "the fragment function stage_in structure may not include a matrix or array")
		}
		if storage == spirv.StorageClassOutput {
			c.fail(ErrInvalidInterface, "the fragment function output structure may not include a matrix or array")
		}
	}
	return false
}

// moveToInputBuffer diverts a whole variable into the secondary input
// buffer block keyed by its attribute's Metal buffer index.
func (c *Compiler) moveToInputBuffer(v *spirv.Variable) {
	m := c.module
	if !m.HasDecoration(v.Self, spirv.DecorationLocation) {
		return
	}
	mbrName := ensureValidName(m.Name(v.Self), "m")
	mbrLocn := m.Decoration(v.Self, spirv.DecorationLocation)
	m.Meta(v.Self).QualifiedAlias = c.addInputBufferBlockMember(v.TypeID, mbrName, mbrLocn)
}

// moveMemberToInputBuffer diverts one block member into the secondary
// input buffer block.
func (c *Compiler) moveMemberToInputBuffer(typ *spirv.Type, index int) {
	m := c.module
	if !m.HasMemberDecoration(typ.Self, index, spirv.DecorationLocation) {
		return
	}
	mbrTypeID := typ.MemberTypes[index]
	mbrName := ensureValidName(c.toQualifiedMemberName(typ, index), "m")
	mbrLocn := m.MemberDecoration(typ.Self, index, spirv.DecorationLocation)
	qualName := c.addInputBufferBlockMember(mbrTypeID, mbrName, mbrLocn)
	m.MemberMeta(typ.Self, index).QualifiedAlias = qualName
}

// addInputBufferBlockMember appends a member to the input buffer block
// for the attribute's Metal buffer and returns the rewritten textual
// reference, indexed by vertex or instance id. Returns "" when no
// attribute record covers the location.
func (c *Compiler) addInputBufferBlockMember(mbrTypeID spirv.Id, mbrName string, mbrLocn uint32) string {
	m := c.module
	c.markLocationAsUsedByShader(mbrLocn, spirv.StorageClassInput)

	va := c.vtxAttrsByLocation[mbrLocn]
	if va == nil {
		return ""
	}

	if va.PerInstance {
		c.needsInstanceIdxArg = true
	} else {
		c.needsVertexIdxArg = true
	}

	// The struct stride rides in the block type's Offset decoration.
	ibVarID := c.inputBufferBlockVarID(va.MSLBuffer)
	ibVar := m.Variable(ibVarID)
	ibTypeID := ibVar.TypeID
	ibType := m.Type(ibTypeID)
	m.SetDecoration(ibTypeID, spirv.DecorationOffset, va.MSLStride)

	ibMbrIdx := len(ibType.MemberTypes)
	ibType.MemberTypes = append(ibType.MemberTypes, mbrTypeID)
	m.SetMemberName(ibTypeID, ibMbrIdx, mbrName)

	m.SetMemberDecoration(ibTypeID, ibMbrIdx, spirv.DecorationBinding, va.MSLBuffer)
	m.SetMemberDecoration(ibTypeID, ibMbrIdx, spirv.DecorationOffset, va.MSLOffset)
	m.SetMemberDecoration(ibTypeID, ibMbrIdx, spirv.DecorationLocation, unknownLocation)

	idxVarName := builtinToGlsl(spirv.BuiltInVertexIndex)
	if va.PerInstance {
		idxVarName = builtinToGlsl(spirv.BuiltInInstanceIndex)
	}
	return m.Name(ibVarID) + "[" + idxVarName + "]." + mbrName
}

// inputBufferBlockVarID returns the variable for the secondary input
// block bound to the Metal buffer index, creating the block lazily.
func (c *Compiler) inputBufferBlockVarID(mslBuffer uint32) spirv.Id {
	if id, ok := c.nonStageInInputVarIDs[mslBuffer]; ok {
		return id
	}

	m := c.module
	next := m.IncreaseBound(3)
	ibTypeID := next
	ibVarID := next + 1
	initializerID := next + 2

	ibType := m.SetType(ibTypeID)
	ibType.Base = spirv.BaseStruct
	ibType.Storage = spirv.StorageClassInput
	m.SetDecoration(ibTypeID, spirv.DecorationBlock)

	ibVar := m.SetVariable(ibVarID, ibTypeID, spirv.StorageClassInput)
	ibVar.Initializer = initializerID

	ibVarName := stageInVarName + fmt.Sprint(mslBuffer)
	m.SetName(ibVarID, ibVarName)
	m.SetName(ibTypeID, c.entryPointName()+"_"+ibVarName)

	c.nonStageInInputVarIDs[mslBuffer] = ibVarID
	return ibVarID
}

// localizeGlobalVariables relocates Private and Workgroup globals into
// the entry function. Non-constant variables cannot have global scope
// in Metal.
func (c *Compiler) localizeGlobalVariables() {
	m := c.module
	entryFunc := m.Function(m.EntryPoint)
	for id := spirv.Id(1); id < m.Bound; id++ {
		v := m.Variable(id)
		if v == nil {
			continue
		}
		if v.Storage == spirv.StorageClassPrivate || v.Storage == spirv.StorageClassWorkgroup {
			if v.Storage == spirv.StorageClassWorkgroup {
				v.WasWorkgroup = true
			}
			v.Storage = spirv.StorageClassFunction
			entryFunc.AddLocalVariable(id)
		}
	}
}

// extractGlobalVariablesFromFunctions rewrites every non-entry
// function so that each global it touches, directly or transitively,
// arrives as a trailing pass-through parameter.
func (c *Compiler) extractGlobalVariablesFromFunctions() {
	m := c.module

	globalVarIDs := make(map[spirv.Id]bool)
	for id := spirv.Id(1); id < m.Bound; id++ {
		v := m.Variable(id)
		if v == nil {
			continue
		}
		switch v.Storage {
		case spirv.StorageClassInput, spirv.StorageClassUniform,
			spirv.StorageClassUniformConstant, spirv.StorageClassPushConstant,
			spirv.StorageClassStorageBuffer:
			globalVarIDs[id] = true
		}
	}

	// Entry-function locals count too: a helper may touch a localized
	// global directly.
	entryFunc := m.Function(m.EntryPoint)
	for _, id := range entryFunc.LocalVariables {
		globalVarIDs[id] = true
	}

	processed := make(map[spirv.Id]bool)
	c.extractGlobalVariablesFromFunction(m.EntryPoint, globalVarIDs, processed)
}

// extractGlobalVariablesFromFunction computes, memoizes and applies
// the global set of one function, recursing into callees first.
func (c *Compiler) extractGlobalVariablesFromFunction(funcID spirv.Id,
	globalVarIDs map[spirv.Id]bool, processed map[spirv.Id]bool) []spirv.Id {

	if processed[funcID] {
		return c.functionGlobalVars[funcID]
	}
	processed[funcID] = true

	m := c.module
	fn := m.Function(funcID)
	added := make(map[spirv.Id]bool)

	for _, blockID := range fn.Blocks {
		block := m.Block(blockID)
		if block == nil {
			continue
		}
		for i := range block.Instructions {
			inst := &block.Instructions[i]
			switch inst.Op {
			case spirv.OpLoad, spirv.OpAccessChain, spirv.OpInBoundsAccessChain:
				if globalVarIDs[inst.Id(2)] {
					added[inst.Id(2)] = true
				}

			case spirv.OpFunctionCall:
				// Call args that are globals, then whatever the callee
				// itself needs.
				for argIdx := 3; argIdx < len(inst.Words); argIdx++ {
					if globalVarIDs[inst.Id(argIdx)] {
						added[inst.Id(argIdx)] = true
					}
				}
				inner := c.extractGlobalVariablesFromFunction(inst.Id(2), globalVarIDs, processed)
				for _, id := range inner {
					added[id] = true
				}
			}
		}
	}

	addedIDs := make([]spirv.Id, 0, len(added))
	for id := range added {
		addedIDs = append(addedIDs, id)
	}
	sort.Slice(addedIDs, func(i, j int) bool { return addedIDs[i] < addedIDs[j] })
	c.functionGlobalVars[funcID] = addedIDs

	if funcID == m.EntryPoint {
		return addedIDs
	}

	nextID := m.IncreaseBound(uint32(len(addedIDs)))
	for _, argID := range addedIDs {
		v := m.Variable(argID)
		typeID := v.TypeID
		fn.AddParameter(typeID, nextID, argID)
		nv := m.SetVariable(nextID, typeID, spirv.StorageClassFunction)
		nv.BaseVariable = argID

		// The new parameter carries the same name as the global so the
		// body compiles against it unchanged.
		m.SetName(argID, ensureValidName(m.Name(argID), "v"))
		m.CopyMeta(nextID, argID)

		nextID++
	}
	return addedIDs
}

// markPackableStructs decorates every struct reachable from a buffer
// variable as CPacked, recursively.
func (c *Compiler) markPackableStructs() {
	m := c.module
	for id := spirv.Id(1); id < m.Bound; id++ {
		v := m.Variable(id)
		if v == nil || v.Storage == spirv.StorageClassFunction {
			continue
		}
		typ := m.Type(v.TypeID)
		if typ == nil || !typ.Pointer {
			continue
		}
		switch typ.Storage {
		case spirv.StorageClassUniform, spirv.StorageClassUniformConstant,
			spirv.StorageClassPushConstant, spirv.StorageClassStorageBuffer:
			if m.HasDecoration(typ.Self, spirv.DecorationBlock) ||
				m.HasDecoration(typ.Self, spirv.DecorationBufferBlock) {
				c.markAsPackable(typ)
			}
		}
	}
}

// markAsPackable tunnels through pointers and arrays, then marks a
// struct and its nested structs CPacked.
func (c *Compiler) markAsPackable(typ *spirv.Type) {
	m := c.module
	if typ.Parent != 0 {
		if parent := m.Type(typ.Parent); parent != nil {
			c.markAsPackable(parent)
		}
		return
	}

	if typ.Base != spirv.BaseStruct {
		return
	}
	m.SetDecoration(typ.Self, spirv.DecorationCPacked)

	for _, mbrTypeID := range typ.MemberTypes {
		mbrType := m.Type(mbrTypeID)
		if mbrType == nil {
			continue
		}
		c.markAsPackable(mbrType)
		if mbrType.TypeAlias != 0 {
			if alias := m.Type(mbrType.TypeAlias); alias != nil {
				c.markAsPackable(alias)
			}
		}
	}
}

// resolveSpecializedArrayLengths clears the specialization flag of any
// constant used as an array length. Metal disallows dynamic array
// lengths.
func (c *Compiler) resolveSpecializedArrayLengths() {
	m := c.module
	for id := spirv.Id(1); id < m.Bound; id++ {
		if con := m.Constant(id); con != nil && con.UsedAsArrayLength {
			con.Specialization = false
		}
	}
}

// toQualifiedMemberName names an interface member after its owning
// struct, except built-ins which keep their canonical GLSL names.
func (c *Compiler) toQualifiedMemberName(typ *spirv.Type, index int) string {
	m := c.module
	if b := m.MemberBuiltIn(typ.Self, index); b != spirv.BuiltInNone {
		return builtinToGlsl(b)
	}

	mbrName := m.MemberName(typ.Self, index)
	for len(mbrName) > 0 && mbrName[0] == '_' {
		mbrName = mbrName[1:]
	}
	return m.Name(typ.Self) + "_" + mbrName
}

// sortAspect selects the ordering applied to interface struct members.
type sortAspect uint8

const (
	sortAspectLocation sortAspect = iota
	sortAspectLocationReverse
	sortAspectOffset
)

// sortStructMembers reorders a struct's member types together with
// their metadata: built-ins last, then by the requested aspect.
func (c *Compiler) sortStructMembers(typ *spirv.Type, aspect sortAspect) {
	m := c.module
	meta := m.Meta(typ.Self)
	for len(meta.Members) < len(typ.MemberTypes) {
		m.MemberMeta(typ.Self, len(meta.Members))
	}

	idxs := make([]int, len(typ.MemberTypes))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		m1, m2 := &meta.Members[idxs[a]], &meta.Members[idxs[b]]
		b1 := m1.BuiltIn != spirv.BuiltInNone
		b2 := m2.BuiltIn != spirv.BuiltInNone
		if b1 != b2 {
			return b2
		}
		switch aspect {
		case sortAspectLocation:
			return m1.Location < m2.Location
		case sortAspectLocationReverse:
			return m1.Location > m2.Location
		case sortAspectOffset:
			return m1.Offset < m2.Offset
		}
		return false
	})

	typesCopy := append([]spirv.Id{}, typ.MemberTypes...)
	metaCopy := append([]spirv.MemberMeta{}, meta.Members...)
	for i, from := range idxs {
		typ.MemberTypes[i] = typesCopy[from]
		meta.Members[i] = metaCopy[from]
	}
}
