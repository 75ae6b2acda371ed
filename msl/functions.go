package msl

import (
	"fmt"

	"github.com/gogpu/spvmsl/spirv"
)

// emitFunction emits callees first, then the function itself.
func (c *Compiler) emitFunction(fn *spirv.Function) {
	if c.emittedFunctions == nil {
		c.emittedFunctions = make(map[spirv.Id]bool)
	}
	if c.emittedFunctions[fn.Self] {
		return
	}
	c.emittedFunctions[fn.Self] = true

	m := c.module
	for _, blockID := range fn.Blocks {
		block := m.Block(blockID)
		if block == nil {
			continue
		}
		for i := range block.Instructions {
			if block.Instructions[i].Op == spirv.OpFunctionCall {
				if callee := m.Function(block.Instructions[i].Id(2)); callee != nil {
					c.emitFunction(callee)
				}
			}
		}
	}

	c.emitFunctionBody(fn)
}

// emitFunctionBody writes the prototype, local declarations and the
// structured block chain of one function.
func (c *Compiler) emitFunctionBody(fn *spirv.Function) {
	m := c.module
	c.currentFunction = fn
	c.processingEntryPoint = fn.Self == m.EntryPoint

	defer func() {
		c.currentFunction = nil
		c.processingEntryPoint = false
	}()

	for _, param := range fn.Parameters {
		c.resultTypes[param.ID] = param.TypeID
	}

	c.emitFunctionPrototype(fn)
	c.beginScope()

	for _, localID := range fn.LocalVariables {
		c.emitLocalVariable(localID)
	}

	c.emitBlockChain(fn.EntryBlock, 0, 0, 0)

	c.endScope()
	c.statement("")
}

// emitLocalVariable declares one function-local variable. Variables
// relocated from Workgroup storage keep a threadgroup qualifier.
func (c *Compiler) emitLocalVariable(id spirv.Id) {
	m := c.module
	v := m.Variable(id)
	if v == nil {
		return
	}
	typ := m.Type(v.TypeID)
	if typ == nil {
		return
	}

	quals := ""
	if v.WasWorkgroup {
		quals = "threadgroup "
	}

	decl := fmt.Sprintf("%s%s %s%s", quals, c.typeToGlsl(typ), m.Name(id), c.typeToArrayGlsl(typ))

	switch {
	case v.Initializer != 0 && m.Constant(v.Initializer) != nil:
		decl += " = " + c.constantExpression(m.Constant(v.Initializer))
	case v.Initializer != 0:
		// Synthesized interface blocks initialize empty.
		decl += " = {}"
	}
	c.statement("%s;", decl)
}

// emitFunctionPrototype writes the declaration signature. The entry
// point gains its stage prefix and Metal-specific arguments.
func (c *Compiler) emitFunctionPrototype(fn *spirv.Function) {
	m := c.module

	returnType := m.Type(fn.ReturnType)
	decl := c.funcTypeDecl(returnType) + " " + m.Name(fn.Self) + "("

	if c.processingEntryPoint {
		decl += c.entryPointArgs(len(fn.Parameters) > 0)
	}

	for i, arg := range fn.Parameters {
		addressSpace := "thread"
		if v := m.Variable(arg.ID); v != nil {
			addressSpace = c.argumentAddressSpace(v)
		}

		decl += addressSpace + " " + c.argumentDecl(&arg)

		// SampledImage textures bring their sampler along.
		argType := m.Type(arg.TypeID)
		if argType != nil && argType.Base == spirv.BaseSampledImage && argType.Image.Dim != spirv.DimBuffer {
			decl += ", thread const sampler& " + c.toSamplerExpression(arg.ID)
		}

		if i+1 < len(fn.Parameters) {
			decl += ", "
		}
	}

	decl += ")"
	c.statement("%s", decl)
}

// funcTypeDecl returns the return type declaration, prefixed with the
// entry kind for the entry point function.
func (c *Compiler) funcTypeDecl(typ *spirv.Type) string {
	m := c.module
	returnType := "void"
	if typ != nil {
		returnType = c.typeToGlsl(typ)
	}
	if !c.processingEntryPoint {
		return returnType
	}

	// An outgoing interface block overrides the entry return type.
	if c.stageOutVarID != 0 {
		soVar := m.Variable(c.stageOutVarID)
		returnType = c.typeToGlsl(m.Type(soVar.TypeID))
	}

	var entryType string
	switch m.ExecutionModel {
	case spirv.ExecutionModelVertex:
		entryType = "vertex"
	case spirv.ExecutionModelFragment:
		if m.ExecutionModes[spirv.ExecutionModeEarlyFragmentTests] {
			entryType = "fragment [[ early_fragment_tests ]]"
		} else {
			entryType = "fragment"
		}
	case spirv.ExecutionModelGLCompute, spirv.ExecutionModelKernel:
		entryType = "kernel"
	default:
		entryType = "unknown"
	}

	return entryType + " " + returnType
}

// argumentAddressSpace picks the MSL address space of an argument.
// Read-only uniform structs are constant, writable or storage buffers
// are device, and everything else lives in thread space.
func (c *Compiler) argumentAddressSpace(v *spirv.Variable) string {
	m := c.module
	typ := m.Type(v.TypeID)
	if typ == nil {
		return "thread"
	}

	if typ.Base == spirv.BaseStruct {
		switch typ.Storage {
		case spirv.StorageClassStorageBuffer:
			return "device"
		case spirv.StorageClassUniform, spirv.StorageClassUniformConstant, spirv.StorageClassPushConstant:
			if m.HasDecoration(typ.Self, spirv.DecorationBufferBlock) &&
				!m.HasDecoration(v.Self, spirv.DecorationNonWritable) {
				return "device"
			}
			return "constant"
		}
	}
	return "thread"
}

// argumentDecl declares one function argument. Arguments pass by
// reference; arrays decay to pointers.
func (c *Compiler) argumentDecl(arg *spirv.Parameter) string {
	m := c.module
	typ := m.Type(arg.TypeID)
	if typ == nil {
		c.internalError("argument %d has unknown type", arg.ID)
	}

	constref := arg.AliasGlobal == 0

	uniformConstPointer := typ.Pointer && typ.Storage == spirv.StorageClassUniformConstant

	decl := ""
	if constref {
		decl += "const "
	}

	v := m.Variable(arg.ID)
	if v != nil && m.HasDecoration(v.Self, spirv.DecorationBuiltIn) {
		decl += builtinTypeDecl(spirv.BuiltIn(m.Decoration(v.Self, spirv.DecorationBuiltIn)))
	} else {
		decl += c.typeToGlsl(typ, arg.ID)
	}

	switch {
	case typ.IsArray():
		decl += "*"
	case !uniformConstPointer:
		decl += "&"
	}

	decl += " " + m.Name(arg.ID)
	return decl
}

// entryPointArgs composes the comma-delimited Metal arguments of the
// entry function: stage_in, secondary vertex buffers, resources,
// direct built-ins and index built-ins demanded by secondary buffers.
//
//nolint:gocyclo,cyclop,funlen // Mirrors the full argument matrix.
func (c *Compiler) entryPointArgs(appendComma bool) string {
	m := c.module
	var epArgs string

	// Stage-in structure.
	if c.stageInVarID != 0 {
		v := m.Variable(c.stageInVarID)
		typ := m.Type(v.TypeID)
		epArgs += c.typeToGlsl(typ) + " " + m.Name(v.Self) + " [[stage_in]]"
	}

	// Non-stage-in vertex attribute structures.
	for _, buf := range c.sortedBufferIndices() {
		v := m.Variable(c.nonStageInInputVarIDs[buf])
		typ := m.Type(v.TypeID)
		if epArgs != "" {
			epArgs += ", "
		}
		epArgs += fmt.Sprintf("device %s* %s [[buffer(%d)]]", c.typeToGlsl(typ), m.Name(v.Self), buf)
	}

	// Uniforms, storage buffers, images and samplers, in Id order.
	for id := spirv.Id(1); id < m.Bound; id++ {
		v := m.Variable(id)
		if v == nil {
			continue
		}
		typ := m.Type(v.TypeID)
		if typ == nil {
			continue
		}

		switch v.Storage {
		case spirv.StorageClassUniform, spirv.StorageClassUniformConstant,
			spirv.StorageClassPushConstant, spirv.StorageClassStorageBuffer:
			if !c.activeInterfaceVars[id] {
				break
			}
			switch typ.Base {
			case spirv.BaseStruct:
				if len(typ.MemberTypes) == 0 {
					break
				}
				if epArgs != "" {
					epArgs += ", "
				}
				epArgs += c.argumentAddressSpace(v) + " " + c.typeToGlsl(typ) + "& " + m.Name(id)
				epArgs += fmt.Sprintf(" [[buffer(%d)]]", c.metalResourceIndex(v, spirv.BaseStruct))

			case spirv.BaseSampler:
				if epArgs != "" {
					epArgs += ", "
				}
				epArgs += c.typeToGlsl(typ) + " " + m.Name(id)
				epArgs += fmt.Sprintf(" [[sampler(%d)]]", c.metalResourceIndex(v, spirv.BaseSampler))

			case spirv.BaseImage:
				if epArgs != "" {
					epArgs += ", "
				}
				epArgs += c.typeToGlsl(typ, id) + " " + m.Name(id)
				epArgs += fmt.Sprintf(" [[texture(%d)]]", c.metalResourceIndex(v, spirv.BaseImage))

			case spirv.BaseSampledImage:
				if epArgs != "" {
					epArgs += ", "
				}
				epArgs += c.typeToGlsl(typ, id) + " " + m.Name(id)
				epArgs += fmt.Sprintf(" [[texture(%d)]]", c.metalResourceIndex(v, spirv.BaseImage))
				if typ.Image.Dim != spirv.DimBuffer {
					epArgs += ", sampler " + c.toSamplerExpression(id)
					epArgs += fmt.Sprintf(" [[sampler(%d)]]", c.metalResourceIndex(v, spirv.BaseSampler))
				}
			}
		}

		if v.Storage == spirv.StorageClassInput && c.isBuiltinVariable(v) && c.activeInterfaceVars[id] {
			if epArgs != "" {
				epArgs += ", "
			}
			biType := spirv.BuiltIn(m.Decoration(id, spirv.DecorationBuiltIn))
			epArgs += builtinTypeDecl(biType) + " " + c.toExpression(id)
			epArgs += " [[" + c.builtinQualifier(biType) + "]]"
		}
	}

	// Vertex and instance index built-ins demanded by secondary
	// buffers.
	if c.needsVertexIdxArg {
		epArgs += c.builtInFuncArg(spirv.BuiltInVertexIndex, epArgs != "")
	}
	if c.needsInstanceIdxArg {
		epArgs += c.builtInFuncArg(spirv.BuiltInInstanceIndex, epArgs != "")
	}

	if epArgs != "" && appendComma {
		epArgs += ", "
	}
	return epArgs
}

// metalResourceIndex returns the Metal slot of a resource: a matching
// binding table entry if one exists, else the next auto-assigned
// index of that kind.
func (c *Compiler) metalResourceIndex(v *spirv.Variable, basetype spirv.BaseType) uint32 {
	m := c.module

	varDescSet := m.Decoration(v.Self, spirv.DecorationDescriptorSet)
	varBinding := m.Decoration(v.Self, spirv.DecorationBinding)
	if v.Storage == spirv.StorageClassPushConstant {
		varDescSet = PushConstDescSet
		varBinding = PushConstBinding
	}

	for _, rb := range c.resourceBindings {
		if rb.Stage == m.ExecutionModel && rb.DescriptorSet == varDescSet && rb.Binding == varBinding {
			rb.UsedByShader = true
			switch basetype {
			case spirv.BaseStruct:
				return rb.MSLBuffer
			case spirv.BaseImage:
				return rb.MSLTexture
			case spirv.BaseSampler:
				return rb.MSLSampler
			default:
				return 0
			}
		}
	}

	switch basetype {
	case spirv.BaseStruct:
		idx := c.nextResourceIndex.buffer
		c.nextResourceIndex.buffer++
		return idx
	case spirv.BaseImage:
		idx := c.nextResourceIndex.texture
		c.nextResourceIndex.texture++
		return idx
	case spirv.BaseSampler:
		idx := c.nextResourceIndex.sampler
		c.nextResourceIndex.sampler++
		return idx
	default:
		return 0
	}
}

// emitFixup injects clip-space and Y-flip adjustments on gl_Position
// at the end of a vertex entry function.
func (c *Compiler) emitFixup() {
	if c.module.ExecutionModel != spirv.ExecutionModelVertex ||
		c.stageOutVarID == 0 || c.qualPosVarName == "" {
		return
	}
	if c.options.Vertex.FixupClipspace {
		c.statement("%s.z = (%s.z + %s.w) * 0.5;       // Adjust clip-space for Metal",
			c.qualPosVarName, c.qualPosVarName, c.qualPosVarName)
	}
	if c.options.Vertex.FlipVertY {
		c.statement("%s.y = -(%s.y);    // Invert Y-axis for Metal",
			c.qualPosVarName, c.qualPosVarName)
	}
}

// emitBlockChain emits the structured control flow starting at a
// block, stopping when the chain reaches stopAt. Branches to the
// enclosing loop's merge and continue targets become break and
// continue statements.
//
//nolint:gocyclo,cyclop // Structured control flow reconstruction.
func (c *Compiler) emitBlockChain(blockID, stopAt, loopMerge, loopContinue spirv.Id) {
	m := c.module
	for blockID != 0 && blockID != stopAt {
		block := m.Block(blockID)
		if block == nil {
			return
		}

		for i := range block.Instructions {
			c.emitInstruction(&block.Instructions[i])
		}

		switch block.Terminator {
		case spirv.TerminatorReturn:
			if c.processingEntryPoint {
				c.emitFixup()
			}
			if block.ReturnValue != 0 {
				c.statement("return %s;", c.toExpression(block.ReturnValue))
			} else {
				c.statement("return;")
			}
			return

		case spirv.TerminatorKill:
			c.statement("discard_fragment();")
			return

		case spirv.TerminatorUnreachable:
			return

		case spirv.TerminatorBranch:
			if block.IsLoopHeader {
				blockID = c.emitLoop(block)
				continue
			}
			switch block.NextBlock {
			case stopAt:
				return
			case loopMerge:
				c.statement("break;")
				return
			case loopContinue:
				c.statement("continue;")
				return
			}
			blockID = block.NextBlock

		case spirv.TerminatorBranchConditional:
			if block.IsLoopHeader {
				blockID = c.emitWhileLoop(block)
				continue
			}

			c.statement("if (%s)", c.toExpression(block.Condition))
			c.beginScope()
			c.emitBlockChain(block.TrueBlock, block.MergeBlock, loopMerge, loopContinue)
			c.endScope()
			if block.FalseBlock != block.MergeBlock {
				c.statement("else")
				c.beginScope()
				c.emitBlockChain(block.FalseBlock, block.MergeBlock, loopMerge, loopContinue)
				c.endScope()
			}
			blockID = block.MergeBlock

		default:
			return
		}
	}
}

// emitWhileLoop emits a loop whose header tests the condition
// directly. Returns the merge block to continue from.
func (c *Compiler) emitWhileLoop(header *spirv.Block) spirv.Id {
	c.statement("while (%s)", c.toExpression(header.Condition))
	c.beginScope()
	c.emitBlockChain(header.TrueBlock, header.ContinueBlock, header.MergeBlock, header.ContinueBlock)
	c.emitBlockChain(header.ContinueBlock, header.Self, 0, 0)
	c.endScope()
	return header.MergeBlock
}

// emitLoop emits a loop whose condition lives in a separate block
// after the header. Returns the merge block to continue from.
func (c *Compiler) emitLoop(header *spirv.Block) spirv.Id {
	m := c.module
	c.statement("for (;;)")
	c.beginScope()

	condBlock := m.Block(header.NextBlock)
	bodyStart := header.NextBlock
	if condBlock != nil && condBlock.Terminator == spirv.TerminatorBranchConditional &&
		condBlock.FalseBlock == header.MergeBlock {
		for i := range condBlock.Instructions {
			c.emitInstruction(&condBlock.Instructions[i])
		}
		c.statement("if (!%s)", c.toEnclosedExpression(condBlock.Condition))
		c.beginScope()
		c.statement("break;")
		c.endScope()
		bodyStart = condBlock.TrueBlock
	}

	c.emitBlockChain(bodyStart, header.ContinueBlock, header.MergeBlock, header.ContinueBlock)
	c.emitBlockChain(header.ContinueBlock, header.Self, 0, 0)

	c.endScope()
	return header.MergeBlock
}
