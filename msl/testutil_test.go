package msl

import "github.com/gogpu/spvmsl/spirv"

// moduleBuilder assembles IR fixtures the way the binary parser
// would, keeping the Self and Parent conventions of pointer and array
// types intact.
type moduleBuilder struct {
	m    *spirv.Module
	next spirv.Id
}

func newModuleBuilder() *moduleBuilder {
	return &moduleBuilder{m: spirv.NewModule(), next: 1}
}

func (b *moduleBuilder) id() spirv.Id {
	id := b.next
	b.next++
	if id >= b.m.Bound {
		b.m.Bound = id + 1
	}
	return id
}

func (b *moduleBuilder) voidType() spirv.Id {
	id := b.id()
	b.m.SetType(id).Base = spirv.BaseVoid
	return id
}

func (b *moduleBuilder) floatType() spirv.Id {
	id := b.id()
	t := b.m.SetType(id)
	t.Base = spirv.BaseFloat
	t.Width = 32
	return id
}

func (b *moduleBuilder) uintType() spirv.Id {
	id := b.id()
	t := b.m.SetType(id)
	t.Base = spirv.BaseUInt
	t.Width = 32
	return id
}

func (b *moduleBuilder) intType() spirv.Id {
	id := b.id()
	t := b.m.SetType(id)
	t.Base = spirv.BaseInt
	t.Width = 32
	return id
}

func (b *moduleBuilder) boolType() spirv.Id {
	id := b.id()
	t := b.m.SetType(id)
	t.Base = spirv.BaseBool
	t.Width = 32
	return id
}

func (b *moduleBuilder) vecType(elem spirv.Id, size uint32) spirv.Id {
	id := b.id()
	t := b.m.SetType(id)
	*t = *b.m.Type(elem)
	t.Self = id
	t.VecSize = size
	t.Parent = elem
	return id
}

func (b *moduleBuilder) matType(col spirv.Id, cols uint32) spirv.Id {
	id := b.id()
	t := b.m.SetType(id)
	*t = *b.m.Type(col)
	t.Self = id
	t.Columns = cols
	t.Parent = col
	return id
}

func (b *moduleBuilder) arrayType(elem spirv.Id, size uint32) spirv.Id {
	id := b.id()
	t := b.m.SetType(id)
	*t = *b.m.Type(elem)
	t.Array = append(append([]uint32{}, b.m.Type(elem).Array...), size)
	t.Parent = elem
	return id
}

func (b *moduleBuilder) structType(name string, members ...spirv.Id) spirv.Id {
	id := b.id()
	t := b.m.SetType(id)
	t.Base = spirv.BaseStruct
	t.MemberTypes = members
	b.m.SetName(id, name)
	return id
}

func (b *moduleBuilder) ptrType(storage spirv.StorageClass, pointee spirv.Id) spirv.Id {
	id := b.id()
	t := b.m.SetType(id)
	*t = *b.m.Type(pointee)
	t.Pointer = true
	t.Storage = storage
	t.Parent = pointee
	return id
}

func (b *moduleBuilder) imageType(sampled spirv.Id, dim spirv.Dim, sampledState uint32) spirv.Id {
	id := b.id()
	t := b.m.SetType(id)
	t.Base = spirv.BaseImage
	t.Image = spirv.ImageDesc{
		SampledType: sampled,
		Dim:         dim,
		Sampled:     sampledState,
		Access:      spirv.AccessQualifierNone,
	}
	return id
}

func (b *moduleBuilder) variable(name string, ptrType spirv.Id, storage spirv.StorageClass) spirv.Id {
	id := b.id()
	b.m.SetVariable(id, ptrType, storage)
	if name != "" {
		b.m.SetName(id, name)
	}
	return id
}

func (b *moduleBuilder) constU32(typ spirv.Id, v uint32) spirv.Id {
	id := b.id()
	c := b.m.SetConstant(id, typ)
	c.Scalar = uint64(v)
	return id
}

func (b *moduleBuilder) constF32(typ spirv.Id, bits uint32) spirv.Id {
	id := b.id()
	c := b.m.SetConstant(id, typ)
	c.Scalar = uint64(bits)
	return id
}

// entryFunction installs a single-block entry function named main and
// marks it as the module entry point for the execution model.
func (b *moduleBuilder) entryFunction(model spirv.ExecutionModel, returnType spirv.Id,
	insts ...spirv.Instruction) spirv.Id {

	fnID := b.id()
	fn := b.m.SetFunction(fnID, returnType)

	blockID := b.id()
	blk := b.m.SetBlock(blockID)
	blk.Instructions = insts
	blk.Terminator = spirv.TerminatorReturn
	fn.Blocks = []spirv.Id{blockID}
	fn.EntryBlock = blockID

	b.m.EntryPoint = fnID
	b.m.EntryPointName = "main"
	b.m.SetName(fnID, "main")
	b.m.ExecutionModel = model
	return fnID
}

func inst(op spirv.Op, words ...uint32) spirv.Instruction {
	return spirv.Instruction{Op: op, Words: words}
}

func u(id spirv.Id) uint32 { return uint32(id) }

// newTestCompiler returns a compiler with its instance and pass state
// initialized, for unit tests that drive internals directly.
func newTestCompiler(m *spirv.Module) *Compiler {
	c := NewCompiler(m, DefaultOptions())
	c.nonStageInInputVarIDs = make(map[uint32]spirv.Id)
	c.structMemberPadding = make(map[memberKey]uint32)
	c.functionGlobalVars = make(map[spirv.Id][]spirv.Id)
	c.spvFuncImpls = make(map[spvFuncImpl]bool)
	c.pragmaLines = make(map[string]bool)
	c.activeInterfaceVars = make(map[spirv.Id]bool)
	c.activeInputBuiltins = make(map[spirv.BuiltIn]bool)
	c.activeOutputBuiltins = make(map[spirv.BuiltIn]bool)
	c.reset()
	return c
}
