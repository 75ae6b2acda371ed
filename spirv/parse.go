package spirv

import (
	"encoding/binary"
	"fmt"
)

// WordsFromBytes converts a little-endian SPIR-V blob to words.
func WordsFromBytes(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("spirv: binary size %d is not a multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}

// Parse decodes a SPIR-V word stream into a Module. Only the single
// entry point named by the first OpEntryPoint is retained.
func Parse(words []uint32) (*Module, error) {
	if len(words) < 5 {
		return nil, fmt.Errorf("spirv: module too short (%d words)", len(words))
	}
	if words[0] != MagicNumber {
		return nil, fmt.Errorf("spirv: bad magic number %#x", words[0])
	}

	m := NewModule()
	m.Bound = Id(words[3])
	if m.Bound == 0 {
		m.Bound = 1
	}

	var (
		curFunc  *Function
		curBlock *Block
	)

	offset := 5
	for offset < len(words) {
		first := words[offset]
		op := Op(first & 0xFFFF)
		length := int(first >> 16)
		if length == 0 || offset+length > len(words) {
			return nil, fmt.Errorf("spirv: instruction at word %d overruns module", offset)
		}
		ops := words[offset+1 : offset+length]
		offset += length

		switch op {
		case OpEntryPoint:
			if m.EntryPoint == 0 {
				m.ExecutionModel = ExecutionModel(ops[0])
				m.EntryPoint = Id(ops[1])
				m.EntryPointName, _ = decodeString(ops[2:])
			}

		case OpExecutionMode:
			mode := ExecutionMode(ops[1])
			m.ExecutionModes[mode] = true
			if mode == ExecutionModeLocalSize && len(ops) >= 5 {
				m.WorkgroupSize = [3]uint32{ops[2], ops[3], ops[4]}
			}

		case OpExtInstImport:
			name, _ := decodeString(ops[1:])
			m.ExtInstImports[Id(ops[0])] = name

		case OpName:
			name, _ := decodeString(ops[1:])
			m.SetName(Id(ops[0]), name)

		case OpMemberName:
			name, _ := decodeString(ops[2:])
			m.SetMemberName(Id(ops[0]), int(ops[1]), name)

		case OpDecorate:
			m.SetDecoration(Id(ops[0]), Decoration(ops[1]), ops[2:]...)

		case OpMemberDecorate:
			m.SetMemberDecoration(Id(ops[0]), int(ops[1]), Decoration(ops[2]), ops[3:]...)

		case OpTypeVoid:
			m.SetType(Id(ops[0])).Base = BaseVoid

		case OpTypeBool:
			m.SetType(Id(ops[0])).Base = BaseBool

		case OpTypeInt:
			t := m.SetType(Id(ops[0]))
			t.Width = ops[1]
			signed := ops[2] != 0
			switch {
			case ops[1] == 64 && signed:
				t.Base = BaseInt64
			case ops[1] == 64:
				t.Base = BaseUInt64
			case ops[1] == 8 && signed:
				t.Base = BaseChar
			case signed:
				t.Base = BaseInt
			default:
				t.Base = BaseUInt
			}

		case OpTypeFloat:
			t := m.SetType(Id(ops[0]))
			t.Width = ops[1]
			if ops[1] == 64 {
				t.Base = BaseDouble
			} else {
				t.Base = BaseFloat
			}

		case OpTypeVector:
			elem := m.Type(Id(ops[1]))
			if elem == nil {
				return nil, fmt.Errorf("spirv: OpTypeVector references unknown type %d", ops[1])
			}
			t := m.SetType(Id(ops[0]))
			*t = *elem
			t.Self = Id(ops[0])
			t.VecSize = ops[2]
			t.Parent = elem.Self

		case OpTypeMatrix:
			col := m.Type(Id(ops[1]))
			if col == nil {
				return nil, fmt.Errorf("spirv: OpTypeMatrix references unknown type %d", ops[1])
			}
			t := m.SetType(Id(ops[0]))
			*t = *col
			t.Self = Id(ops[0])
			t.Columns = ops[2]
			t.Parent = col.Self

		case OpTypeImage:
			t := m.SetType(Id(ops[0]))
			t.Base = BaseImage
			t.Image = ImageDesc{
				SampledType: Id(ops[1]),
				Dim:         Dim(ops[2]),
				Depth:       ops[3] == 1,
				Arrayed:     ops[4] != 0,
				MS:          ops[5] != 0,
				Sampled:     ops[6],
				Access:      AccessQualifierNone,
			}
			if len(ops) > 8 {
				t.Image.Access = AccessQualifier(ops[8])
			}

		case OpTypeSampler:
			m.SetType(Id(ops[0])).Base = BaseSampler

		case OpTypeSampledImage:
			img := m.Type(Id(ops[1]))
			if img == nil {
				return nil, fmt.Errorf("spirv: OpTypeSampledImage references unknown type %d", ops[1])
			}
			t := m.SetType(Id(ops[0]))
			*t = *img
			t.Self = Id(ops[0])
			t.Base = BaseSampledImage
			t.Parent = img.Self

		case OpTypeArray:
			elem := m.Type(Id(ops[1]))
			if elem == nil {
				return nil, fmt.Errorf("spirv: OpTypeArray references unknown type %d", ops[1])
			}
			size := uint32(1)
			if c := m.Constant(Id(ops[2])); c != nil {
				size = c.ScalarValue()
				c.UsedAsArrayLength = true
			}
			t := m.SetType(Id(ops[0]))
			*t = *elem
			// Arrays keep the element's Self so decorations on the
			// underlying struct resolve through the array type.
			t.Array = append(append([]uint32{}, elem.Array...), size)
			t.Parent = Id(ops[1])

		case OpTypeRuntimeArray:
			elem := m.Type(Id(ops[1]))
			if elem == nil {
				return nil, fmt.Errorf("spirv: OpTypeRuntimeArray references unknown type %d", ops[1])
			}
			t := m.SetType(Id(ops[0]))
			*t = *elem
			t.Array = append(append([]uint32{}, elem.Array...), 0)
			t.Parent = Id(ops[1])

		case OpTypeStruct:
			t := m.SetType(Id(ops[0]))
			t.Base = BaseStruct
			for _, w := range ops[1:] {
				t.MemberTypes = append(t.MemberTypes, Id(w))
			}

		case OpTypePointer:
			pointee := m.Type(Id(ops[2]))
			if pointee == nil {
				return nil, fmt.Errorf("spirv: OpTypePointer references unknown type %d", ops[2])
			}
			t := m.SetType(Id(ops[0]))
			*t = *pointee
			// Pointers keep the pointee's Self, so inspection through
			// indirection lands on the underlying value type.
			t.Pointer = true
			t.Storage = StorageClass(ops[1])
			t.Parent = Id(ops[2])

		case OpTypeFunction:
			t := m.SetType(Id(ops[0]))
			t.Base = BaseUnknown
			for _, w := range ops[1:] {
				t.MemberTypes = append(t.MemberTypes, Id(w))
			}

		case OpConstantTrue, OpSpecConstantTrue:
			c := m.SetConstant(Id(ops[1]), Id(ops[0]))
			c.Scalar = 1
			c.Specialization = op == OpSpecConstantTrue

		case OpConstantFalse, OpSpecConstantFalse:
			c := m.SetConstant(Id(ops[1]), Id(ops[0]))
			c.Specialization = op == OpSpecConstantFalse

		case OpConstant, OpSpecConstant:
			c := m.SetConstant(Id(ops[1]), Id(ops[0]))
			c.Scalar = uint64(ops[2])
			if len(ops) > 3 {
				c.Scalar |= uint64(ops[3]) << 32
			}
			c.Specialization = op == OpSpecConstant
			if op == OpSpecConstant {
				c.SpecializationID = m.Decoration(Id(ops[1]), DecorationSpecID)
			}

		case OpConstantComposite, OpSpecConstantComposite:
			c := m.SetConstant(Id(ops[1]), Id(ops[0]))
			for _, w := range ops[2:] {
				c.Subconstants = append(c.Subconstants, Id(w))
			}
			c.Specialization = op == OpSpecConstantComposite

		case OpConstantNull:
			m.SetConstant(Id(ops[1]), Id(ops[0]))

		case OpUndef:
			m.Undefs[Id(ops[1])] = Id(ops[0])

		case OpVariable:
			v := m.SetVariable(Id(ops[1]), Id(ops[0]), StorageClass(ops[2]))
			if len(ops) > 3 {
				v.Initializer = Id(ops[3])
			}
			if curFunc != nil {
				curFunc.AddLocalVariable(v.Self)
			}

		case OpFunction:
			f := m.SetFunction(Id(ops[1]), Id(ops[0]))
			f.FunctionType = Id(ops[3])
			curFunc = f

		case OpFunctionParameter:
			if curFunc == nil {
				return nil, fmt.Errorf("spirv: OpFunctionParameter outside function")
			}
			curFunc.Parameters = append(curFunc.Parameters, Parameter{TypeID: Id(ops[0]), ID: Id(ops[1])})

		case OpFunctionEnd:
			curFunc = nil
			curBlock = nil

		case OpLabel:
			if curFunc == nil {
				return nil, fmt.Errorf("spirv: OpLabel outside function")
			}
			curBlock = m.SetBlock(Id(ops[0]))
			curFunc.Blocks = append(curFunc.Blocks, curBlock.Self)
			if curFunc.EntryBlock == 0 {
				curFunc.EntryBlock = curBlock.Self
			}

		case OpSelectionMerge:
			if curBlock != nil {
				curBlock.MergeBlock = Id(ops[0])
				curBlock.IsSelection = true
			}

		case OpLoopMerge:
			if curBlock != nil {
				curBlock.MergeBlock = Id(ops[0])
				curBlock.ContinueBlock = Id(ops[1])
				curBlock.IsLoopHeader = true
			}

		case OpBranch:
			if curBlock != nil {
				curBlock.Terminator = TerminatorBranch
				curBlock.NextBlock = Id(ops[0])
				curBlock = nil
			}

		case OpBranchConditional:
			if curBlock != nil {
				curBlock.Terminator = TerminatorBranchConditional
				curBlock.Condition = Id(ops[0])
				curBlock.TrueBlock = Id(ops[1])
				curBlock.FalseBlock = Id(ops[2])
				curBlock = nil
			}

		case OpReturn:
			if curBlock != nil {
				curBlock.Terminator = TerminatorReturn
				curBlock = nil
			}

		case OpReturnValue:
			if curBlock != nil {
				curBlock.Terminator = TerminatorReturn
				curBlock.ReturnValue = Id(ops[0])
				curBlock = nil
			}

		case OpKill:
			if curBlock != nil {
				curBlock.Terminator = TerminatorKill
				curBlock = nil
			}

		case OpUnreachable:
			if curBlock != nil {
				curBlock.Terminator = TerminatorUnreachable
				curBlock = nil
			}

		default:
			if curBlock != nil {
				inst := Instruction{Op: op, Words: append([]uint32{}, ops...)}
				curBlock.Instructions = append(curBlock.Instructions, inst)
			}
		}
	}

	if m.EntryPoint == 0 {
		return nil, fmt.Errorf("spirv: module has no entry point")
	}
	return m, nil
}

// decodeString reads a nul-terminated UTF-8 literal packed into words.
func decodeString(words []uint32) (string, int) {
	var buf []byte
	for i, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			b := byte(w >> shift)
			if b == 0 {
				return string(buf), i + 1
			}
			buf = append(buf, b)
		}
	}
	return string(buf), len(words)
}
