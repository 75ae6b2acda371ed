package msl

import "github.com/gogpu/spvmsl/spirv"

// spvFuncImpl tags a helper function that must be emitted because the
// module uses a SPIR-V operation Metal has no direct equivalent for.
type spvFuncImpl uint8

const (
	spvFuncImplMod spvFuncImpl = iota
	spvFuncImplRadians
	spvFuncImplDegrees
	spvFuncImplFindILsb
	spvFuncImplFindSMsb
	spvFuncImplFindUMsb
	spvFuncImplArrayCopy
	spvFuncImplInverse2x2
	spvFuncImplInverse3x3
	spvFuncImplInverse4x4
	spvFuncImplRowMajor2x3
	spvFuncImplRowMajor2x4
	spvFuncImplRowMajor3x2
	spvFuncImplRowMajor3x4
	spvFuncImplRowMajor4x2
	spvFuncImplRowMajor4x3

	spvFuncImplCount
)

// preprocessOpCodes scans every opcode reachable from the entry point
// and records which helper implementations and header pragmas the
// emitted source will need.
func (c *Compiler) preprocessOpCodes() {
	pre := &opCodePreprocessor{
		compiler:    c,
		resultTypes: make(map[spirv.Id]spirv.Id),
		visited:     make(map[spirv.Id]bool),
	}
	pre.traverse(c.module.EntryPoint)

	if pre.suppressMissingPrototypes {
		c.addPragmaLine("#pragma clang diagnostic ignored \"-Wmissing-prototypes\"")
	}

	if pre.usesAtomics {
		c.addHeaderLine("#include <metal_atomic>")
		c.addPragmaLine("#pragma clang diagnostic ignored \"-Wunused-variable\"")
	}
}

// opCodePreprocessor walks reachable instructions ahead of emission.
type opCodePreprocessor struct {
	compiler *Compiler

	suppressMissingPrototypes bool
	usesAtomics               bool

	// resultTypes maps result Ids to result type Ids so the RHS type
	// of a later OpStore can be recovered during the same walk.
	resultTypes map[spirv.Id]spirv.Id
	visited     map[spirv.Id]bool
}

func (p *opCodePreprocessor) traverse(funcID spirv.Id) {
	if p.visited[funcID] {
		return
	}
	p.visited[funcID] = true

	fn := p.compiler.module.Function(funcID)
	if fn == nil {
		return
	}
	for _, blockID := range fn.Blocks {
		block := p.compiler.module.Block(blockID)
		if block == nil {
			continue
		}
		for i := range block.Instructions {
			p.handle(&block.Instructions[i])
		}
	}
}

func (p *opCodePreprocessor) handle(inst *spirv.Instruction) {
	if impl, ok := p.funcImplForOp(inst); ok {
		p.compiler.spvFuncImpls[impl] = true
		p.suppressMissingPrototypes = true
	}

	switch inst.Op {
	case spirv.OpFunctionCall:
		p.suppressMissingPrototypes = true
		p.traverse(inst.Id(2))

	case spirv.OpAtomicExchange, spirv.OpAtomicCompareExchange, spirv.OpAtomicCompareExchangeWeak,
		spirv.OpAtomicLoad, spirv.OpAtomicStore,
		spirv.OpAtomicIIncrement, spirv.OpAtomicIDecrement,
		spirv.OpAtomicIAdd, spirv.OpAtomicISub,
		spirv.OpAtomicSMin, spirv.OpAtomicUMin, spirv.OpAtomicSMax, spirv.OpAtomicUMax,
		spirv.OpAtomicAnd, spirv.OpAtomicOr, spirv.OpAtomicXor:
		p.usesAtomics = true
	}

	// Track result types so OpStore can see the RHS type; ops without
	// a result are skipped.
	switch inst.Op {
	case spirv.OpStore, spirv.OpCopyMemory, spirv.OpCopyMemorySized, spirv.OpImageWrite,
		spirv.OpAtomicStore, spirv.OpControlBarrier, spirv.OpMemoryBarrier:
	default:
		if len(inst.Words) > 1 {
			p.resultTypes[inst.Id(1)] = inst.Id(0)
		}
	}
}

// funcImplForOp maps an instruction to the helper it demands, if any.
func (p *opCodePreprocessor) funcImplForOp(inst *spirv.Instruction) (spvFuncImpl, bool) {
	c := p.compiler
	switch inst.Op {
	case spirv.OpFMod:
		return spvFuncImplMod, true

	case spirv.OpStore:
		// Copying an entire array needs the array copy helper. The RHS
		// type comes from the running result-type map, since Ids are
		// not yet resolvable at this stage.
		rhs := inst.Id(1)
		if c.module.Constant(rhs) != nil {
			return 0, false
		}
		if typeID, ok := p.resultTypes[rhs]; ok {
			if t := c.module.Type(typeID); t != nil && t.IsArray() {
				return spvFuncImplArrayCopy, true
			}
		}

	case spirv.OpExtInst:
		set := inst.Id(2)
		if c.module.ExtInstImports[set] != "GLSL.std.450" {
			return 0, false
		}
		switch spirv.GLSLstd450(inst.Words[3]) {
		case spirv.GLSLstd450Radians:
			return spvFuncImplRadians, true
		case spirv.GLSLstd450Degrees:
			return spvFuncImplDegrees, true
		case spirv.GLSLstd450FindILsb:
			return spvFuncImplFindILsb, true
		case spirv.GLSLstd450FindSMsb:
			return spvFuncImplFindSMsb, true
		case spirv.GLSLstd450FindUMsb:
			return spvFuncImplFindUMsb, true
		case spirv.GLSLstd450MatrixInverse:
			if t := c.module.Type(inst.Id(0)); t != nil {
				switch t.Columns {
				case 2:
					return spvFuncImplInverse2x2, true
				case 3:
					return spvFuncImplInverse3x3, true
				case 4:
					return spvFuncImplInverse4x4, true
				}
			}
		}
	}
	return 0, false
}
