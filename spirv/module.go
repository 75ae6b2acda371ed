package spirv

import "fmt"

// Id names any entity in a module. All cross-references between
// entities are Ids.
type Id uint32

// BaseType is the tagged kind of a Type.
type BaseType uint8

const (
	BaseUnknown BaseType = iota
	BaseVoid
	BaseBool
	BaseChar
	BaseInt
	BaseUInt
	BaseInt64
	BaseUInt64
	BaseFloat
	BaseDouble
	BaseStruct
	BaseImage
	BaseSampledImage
	BaseSampler
	BaseAtomicCounter
)

// ImageDesc describes an image type.
type ImageDesc struct {
	SampledType Id
	Dim         Dim
	Depth       bool
	Arrayed     bool
	MS          bool
	Sampled     uint32
	Access      AccessQualifier
}

// Type is a tagged type record. Pointer types copy the fields of their
// pointee and set Pointer, so type inspection works uniformly through
// indirection; Parent links back to the pointee.
type Type struct {
	Self    Id
	Base    BaseType
	Width   uint32
	VecSize uint32
	Columns uint32

	// Array sizes, outermost last. Zero marks a runtime array.
	Array []uint32

	Pointer bool
	Storage StorageClass

	MemberTypes []Id

	Image ImageDesc

	// Parent is the pointee for pointer types and the element type
	// source for array types.
	Parent Id

	// TypeAlias links duplicate struct declarations to their canonical
	// form.
	TypeAlias Id
}

// IsMatrix reports whether the type has more than one column.
func (t *Type) IsMatrix() bool { return t.Columns > 1 }

// IsArray reports whether the type has array dimensions.
func (t *Type) IsArray() bool { return len(t.Array) > 0 }

// Variable is a declared variable of any storage class.
type Variable struct {
	Self        Id
	TypeID      Id
	Storage     StorageClass
	Initializer Id

	// BaseVariable links a synthesized pass-through parameter back to
	// the global it aliases.
	BaseVariable Id

	// WasWorkgroup is set when a Workgroup-storage variable is
	// relocated into the entry function.
	WasWorkgroup bool
}

// Constant is a scalar or composite constant.
type Constant struct {
	Self   Id
	TypeID Id

	// Scalar holds the raw bits of a scalar value.
	Scalar uint64

	// Subconstants lists component Ids for composite constants.
	Subconstants []Id

	Specialization    bool
	UsedAsArrayLength bool
	SpecializationID  uint32
}

// ScalarValue returns the low 32 bits of the scalar.
func (c *Constant) ScalarValue() uint32 { return uint32(c.Scalar) }

// Parameter is a function parameter.
type Parameter struct {
	TypeID Id
	ID     Id

	// AliasGlobal is the global variable this parameter passes
	// through, or zero for an ordinary parameter.
	AliasGlobal Id
}

// Function is a function definition with its basic blocks.
type Function struct {
	Self           Id
	ReturnType     Id
	FunctionType   Id
	Parameters     []Parameter
	LocalVariables []Id
	Blocks         []Id
	EntryBlock     Id
}

// AddLocalVariable appends a local variable Id if not already present.
func (f *Function) AddLocalVariable(id Id) {
	for _, v := range f.LocalVariables {
		if v == id {
			return
		}
	}
	f.LocalVariables = append(f.LocalVariables, id)
}

// AddParameter appends a pass-through parameter aliasing a global.
func (f *Function) AddParameter(typeID, id, aliasGlobal Id) {
	f.Parameters = append(f.Parameters, Parameter{TypeID: typeID, ID: id, AliasGlobal: aliasGlobal})
}

// Terminator is the kind of a block terminator.
type Terminator uint8

const (
	TerminatorUnknown Terminator = iota
	TerminatorReturn
	TerminatorBranch
	TerminatorBranchConditional
	TerminatorKill
	TerminatorUnreachable
)

// Block is a basic block: an ordered instruction list plus terminator.
type Block struct {
	Self         Id
	Instructions []Instruction

	Terminator  Terminator
	ReturnValue Id

	// Branch targets.
	NextBlock  Id
	Condition  Id
	TrueBlock  Id
	FalseBlock Id

	// Structured merge info.
	MergeBlock    Id
	ContinueBlock Id
	IsLoopHeader  bool
	IsSelection   bool
}

// Instruction is a raw opcode plus its operand words (the words
// following the opcode/length word).
type Instruction struct {
	Op    Op
	Words []uint32
}

// Id returns the operand word at index i as an Id.
func (i *Instruction) Id(idx int) Id { return Id(i.Words[idx]) }

// MemberMeta holds per-member decorations of a struct type.
type MemberMeta struct {
	Alias          string
	QualifiedAlias string
	Decorations    map[Decoration]bool
	Location       uint32
	Binding        uint32
	Offset         uint32
	ArrayStride    uint32
	BuiltIn        BuiltIn
}

// Meta holds per-Id decorations and names.
type Meta struct {
	Alias          string
	QualifiedAlias string
	Decorations    map[Decoration]bool
	Location       uint32
	Binding        uint32
	DescriptorSet  uint32
	Offset         uint32
	ArrayStride    uint32
	SpecID         uint32
	BuiltIn        BuiltIn
	Members        []MemberMeta

	// Sampler associates a sampled-image expression with its sampler.
	Sampler Id
}

// Module is the parsed SPIR-V module: Id-indexed entity tables plus
// entry-point metadata. Every Id resolves in at most one table.
type Module struct {
	Bound Id

	EntryPoint     Id
	EntryPointName string
	ExecutionModel ExecutionModel
	ExecutionModes map[ExecutionMode]bool
	WorkgroupSize  [3]uint32

	Types     map[Id]*Type
	Variables map[Id]*Variable
	Constants map[Id]*Constant
	Functions map[Id]*Function
	Blocks    map[Id]*Block

	// Undefs maps an OpUndef result Id to its type Id.
	Undefs map[Id]Id

	// ExtInstImports maps an import result Id to the set name.
	ExtInstImports map[Id]string

	meta map[Id]*Meta
}

// NewModule returns an empty module with an initial Id bound.
func NewModule() *Module {
	return &Module{
		Bound:          1,
		ExecutionModes: make(map[ExecutionMode]bool),
		Types:          make(map[Id]*Type),
		Variables:      make(map[Id]*Variable),
		Constants:      make(map[Id]*Constant),
		Functions:      make(map[Id]*Function),
		Blocks:         make(map[Id]*Block),
		Undefs:         make(map[Id]Id),
		ExtInstImports: make(map[Id]string),
		meta:           make(map[Id]*Meta),
	}
}

// IncreaseBound reserves count fresh Ids and returns the first.
func (m *Module) IncreaseBound(count uint32) Id {
	first := m.Bound
	m.Bound += Id(count)
	return first
}

// Meta returns the metadata record for an Id, creating it on demand.
func (m *Module) Meta(id Id) *Meta {
	mt, ok := m.meta[id]
	if !ok {
		mt = &Meta{Decorations: make(map[Decoration]bool), BuiltIn: BuiltInNone}
		m.meta[id] = mt
	}
	return mt
}

// MemberMeta returns the metadata record for a struct member, growing
// the member table on demand.
func (m *Module) MemberMeta(id Id, index int) *MemberMeta {
	mt := m.Meta(id)
	for len(mt.Members) <= index {
		mt.Members = append(mt.Members, MemberMeta{
			Decorations: make(map[Decoration]bool),
			BuiltIn:     BuiltInNone,
		})
	}
	return &mt.Members[index]
}

// Name returns the alias of an Id, or a stable fallback.
func (m *Module) Name(id Id) string {
	if mt, ok := m.meta[id]; ok && mt.Alias != "" {
		return mt.Alias
	}
	return fmt.Sprintf("_%d", id)
}

// SetName sets the alias of an Id.
func (m *Module) SetName(id Id, name string) {
	m.Meta(id).Alias = name
}

// MemberName returns the alias of a struct member, or a fallback.
func (m *Module) MemberName(id Id, index int) string {
	mt := m.Meta(id)
	if index < len(mt.Members) && mt.Members[index].Alias != "" {
		return mt.Members[index].Alias
	}
	return fmt.Sprintf("_m%d", index)
}

// SetMemberName sets the alias of a struct member.
func (m *Module) SetMemberName(id Id, index int, name string) {
	m.MemberMeta(id, index).Alias = name
}

// HasDecoration reports whether the Id carries the decoration.
func (m *Module) HasDecoration(id Id, dec Decoration) bool {
	mt, ok := m.meta[id]
	return ok && mt.Decorations[dec]
}

// SetDecoration applies a decoration with an optional argument.
func (m *Module) SetDecoration(id Id, dec Decoration, args ...uint32) {
	mt := m.Meta(id)
	mt.Decorations[dec] = true
	var arg uint32
	if len(args) > 0 {
		arg = args[0]
	}
	switch dec {
	case DecorationLocation:
		mt.Location = arg
	case DecorationBinding:
		mt.Binding = arg
	case DecorationDescriptorSet:
		mt.DescriptorSet = arg
	case DecorationOffset:
		mt.Offset = arg
	case DecorationArrayStride:
		mt.ArrayStride = arg
	case DecorationSpecID:
		mt.SpecID = arg
	case DecorationBuiltIn:
		mt.BuiltIn = BuiltIn(arg)
	}
}

// UnsetDecoration removes a decoration.
func (m *Module) UnsetDecoration(id Id, dec Decoration) {
	if mt, ok := m.meta[id]; ok {
		delete(mt.Decorations, dec)
	}
}

// Decoration returns the argument of a decoration, or zero.
func (m *Module) Decoration(id Id, dec Decoration) uint32 {
	mt, ok := m.meta[id]
	if !ok {
		return 0
	}
	switch dec {
	case DecorationLocation:
		return mt.Location
	case DecorationBinding:
		return mt.Binding
	case DecorationDescriptorSet:
		return mt.DescriptorSet
	case DecorationOffset:
		return mt.Offset
	case DecorationArrayStride:
		return mt.ArrayStride
	case DecorationSpecID:
		return mt.SpecID
	case DecorationBuiltIn:
		return uint32(mt.BuiltIn)
	}
	return 0
}

// HasMemberDecoration reports whether a struct member carries the
// decoration.
func (m *Module) HasMemberDecoration(id Id, index int, dec Decoration) bool {
	mt, ok := m.meta[id]
	if !ok || index >= len(mt.Members) {
		return false
	}
	return mt.Members[index].Decorations[dec]
}

// SetMemberDecoration applies a member decoration with an optional
// argument.
func (m *Module) SetMemberDecoration(id Id, index int, dec Decoration, args ...uint32) {
	mm := m.MemberMeta(id, index)
	mm.Decorations[dec] = true
	var arg uint32
	if len(args) > 0 {
		arg = args[0]
	}
	switch dec {
	case DecorationLocation:
		mm.Location = arg
	case DecorationBinding:
		mm.Binding = arg
	case DecorationOffset:
		mm.Offset = arg
	case DecorationArrayStride:
		mm.ArrayStride = arg
	case DecorationBuiltIn:
		mm.BuiltIn = BuiltIn(arg)
	}
}

// MemberDecoration returns the argument of a member decoration, or
// zero.
func (m *Module) MemberDecoration(id Id, index int, dec Decoration) uint32 {
	mt, ok := m.meta[id]
	if !ok || index >= len(mt.Members) {
		return 0
	}
	mm := &mt.Members[index]
	switch dec {
	case DecorationLocation:
		return mm.Location
	case DecorationBinding:
		return mm.Binding
	case DecorationOffset:
		return mm.Offset
	case DecorationArrayStride:
		return mm.ArrayStride
	case DecorationBuiltIn:
		return uint32(mm.BuiltIn)
	}
	return 0
}

// MemberBuiltIn returns the built-in decoration of a struct member,
// or BuiltInNone.
func (m *Module) MemberBuiltIn(id Id, index int) BuiltIn {
	if m.HasMemberDecoration(id, index, DecorationBuiltIn) {
		return BuiltIn(m.MemberDecoration(id, index, DecorationBuiltIn))
	}
	return BuiltInNone
}

// CopyMeta duplicates the metadata of src onto dst.
func (m *Module) CopyMeta(dst, src Id) {
	srcMeta := m.Meta(src)
	dstMeta := &Meta{
		Alias:          srcMeta.Alias,
		QualifiedAlias: srcMeta.QualifiedAlias,
		Decorations:    make(map[Decoration]bool, len(srcMeta.Decorations)),
		Location:       srcMeta.Location,
		Binding:        srcMeta.Binding,
		DescriptorSet:  srcMeta.DescriptorSet,
		Offset:         srcMeta.Offset,
		ArrayStride:    srcMeta.ArrayStride,
		SpecID:         srcMeta.SpecID,
		BuiltIn:        srcMeta.BuiltIn,
	}
	for d := range srcMeta.Decorations {
		dstMeta.Decorations[d] = true
	}
	m.meta[dst] = dstMeta
}

// Type returns the type record for an Id, or nil.
func (m *Module) Type(id Id) *Type { return m.Types[id] }

// Variable returns the variable record for an Id, or nil.
func (m *Module) Variable(id Id) *Variable { return m.Variables[id] }

// Constant returns the constant record for an Id, or nil.
func (m *Module) Constant(id Id) *Constant { return m.Constants[id] }

// Function returns the function record for an Id, or nil.
func (m *Module) Function(id Id) *Function { return m.Functions[id] }

// Block returns the block record for an Id, or nil.
func (m *Module) Block(id Id) *Block { return m.Blocks[id] }

// SetType installs a type record and returns it.
func (m *Module) SetType(id Id) *Type {
	t := &Type{Self: id, VecSize: 1, Columns: 1, Storage: StorageClassNone}
	m.Types[id] = t
	if id >= m.Bound {
		m.Bound = id + 1
	}
	return t
}

// SetVariable installs a variable record and returns it.
func (m *Module) SetVariable(id, typeID Id, storage StorageClass) *Variable {
	v := &Variable{Self: id, TypeID: typeID, Storage: storage}
	m.Variables[id] = v
	if id >= m.Bound {
		m.Bound = id + 1
	}
	return v
}

// SetConstant installs a constant record and returns it.
func (m *Module) SetConstant(id, typeID Id) *Constant {
	c := &Constant{Self: id, TypeID: typeID}
	m.Constants[id] = c
	if id >= m.Bound {
		m.Bound = id + 1
	}
	return c
}

// SetFunction installs a function record and returns it.
func (m *Module) SetFunction(id, returnType Id) *Function {
	f := &Function{Self: id, ReturnType: returnType}
	m.Functions[id] = f
	if id >= m.Bound {
		m.Bound = id + 1
	}
	return f
}

// SetBlock installs a block record and returns it.
func (m *Module) SetBlock(id Id) *Block {
	b := &Block{Self: id}
	m.Blocks[id] = b
	if id >= m.Bound {
		m.Bound = id + 1
	}
	return b
}

// GlobalVariables returns the Ids of module-scope variables in Id
// order. Function-storage variables are excluded.
func (m *Module) GlobalVariables() []Id {
	var ids []Id
	for id := Id(1); id < m.Bound; id++ {
		if v, ok := m.Variables[id]; ok && v.Storage != StorageClassFunction {
			ids = append(ids, id)
		}
	}
	return ids
}
