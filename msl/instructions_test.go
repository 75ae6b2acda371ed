package msl

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gogpu/spvmsl/spirv"
)

// storeFixture holds a compute shader with an SSBO holding one member
// x of a caller-chosen type, plus the builder, common scalar types,
// the member pointer type and index constant 0 for custom bodies.
// newStoreFixture builds it and also returns the member type.
type storeFixture struct {
	b        *moduleBuilder
	float    spirv.Id
	uintT    spirv.Id
	boolT    spirv.Id
	ssboVar  spirv.Id
	ptrFloat spirv.Id
	c0       spirv.Id
}

func newStoreFixture(memberType func(b *moduleBuilder) spirv.Id) (*storeFixture, spirv.Id) {
	b := newModuleBuilder()
	b.voidType()
	f := &storeFixture{b: b}
	f.float = b.floatType()
	f.uintT = b.uintType()
	f.boolT = b.boolType()

	member := memberType(b)
	ssbo := b.structType("SSBO", member)
	b.m.SetDecoration(ssbo, spirv.DecorationBufferBlock)
	b.m.SetMemberName(ssbo, 0, "x")
	b.m.SetMemberDecoration(ssbo, 0, spirv.DecorationOffset, 0)
	ptrSSBO := b.ptrType(spirv.StorageClassUniform, ssbo)
	f.ssboVar = b.variable("ssbo", ptrSSBO, spirv.StorageClassUniform)
	f.ptrFloat = b.ptrType(spirv.StorageClassUniform, member)
	f.c0 = b.constU32(f.uintT, 0)
	return f, member
}

func TestQuantizeToF16(t *testing.T) {
	f, _ := newStoreFixture(func(b *moduleBuilder) spirv.Id { return b.floatType() })
	b := f.b

	c1 := b.constF32(f.float, 0x3F800000)
	chain := b.id()
	quant := b.id()
	b.entryFunction(spirv.ExecutionModelGLCompute, 0,
		inst(spirv.OpAccessChain, u(f.ptrFloat), u(chain), u(f.ssboVar), u(f.c0)),
		inst(spirv.OpQuantizeToF16, u(f.float), u(quant), u(c1)),
		inst(spirv.OpStore, u(chain), u(quant)),
	)

	source, err := Compile(b.m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !strings.Contains(source, "ssbo.x = float(half(1.0));") {
		t.Errorf("expected half round-trip:\n%s", source)
	}
}

func TestQuantizeToF16_Vector(t *testing.T) {
	f, member := newStoreFixture(func(b *moduleBuilder) spirv.Id {
		return b.vecType(b.floatType(), 4)
	})
	b := f.b

	c1 := b.constF32(f.float, 0x3F800000)
	vec := b.id()
	con := b.m.SetConstant(vec, member)
	con.Subconstants = []spirv.Id{c1, c1, c1, c1}

	chain := b.id()
	quant := b.id()
	b.entryFunction(spirv.ExecutionModelGLCompute, 0,
		inst(spirv.OpAccessChain, u(f.ptrFloat), u(chain), u(f.ssboVar), u(f.c0)),
		inst(spirv.OpQuantizeToF16, u(member), u(quant), u(vec)),
		inst(spirv.OpStore, u(chain), u(quant)),
	)

	source, err := Compile(b.m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !strings.Contains(source, "ssbo.x = float4(half4(float4(1.0, 1.0, 1.0, 1.0)));") {
		t.Errorf("expected half4 round-trip:\n%s", source)
	}
}

func TestIfElseEmission(t *testing.T) {
	f, _ := newStoreFixture(func(b *moduleBuilder) spirv.Id { return b.floatType() })
	b := f.b

	cZero := b.constF32(f.float, 0)
	cOne := b.constF32(f.float, 0x3F800000)
	cTwo := b.constF32(f.float, 0x40000000)

	chain := b.id()
	load := b.id()
	cond := b.id()

	fnID := b.id()
	fn := b.m.SetFunction(fnID, 0)
	b.m.EntryPoint = fnID
	b.m.EntryPointName = "main"
	b.m.SetName(fnID, "main")
	b.m.ExecutionModel = spirv.ExecutionModelGLCompute

	headID := b.id()
	trueID := b.id()
	falseID := b.id()
	mergeID := b.id()

	head := b.m.SetBlock(headID)
	head.Instructions = []spirv.Instruction{
		inst(spirv.OpAccessChain, u(f.ptrFloat), u(chain), u(f.ssboVar), u(f.c0)),
		inst(spirv.OpLoad, u(f.float), u(load), u(chain)),
		inst(spirv.OpFOrdGreaterThan, u(f.boolT), u(cond), u(load), u(cZero)),
	}
	head.Terminator = spirv.TerminatorBranchConditional
	head.Condition = cond
	head.TrueBlock = trueID
	head.FalseBlock = falseID
	head.MergeBlock = mergeID
	head.IsSelection = true

	tb := b.m.SetBlock(trueID)
	tb.Instructions = []spirv.Instruction{inst(spirv.OpStore, u(chain), u(cOne))}
	tb.Terminator = spirv.TerminatorBranch
	tb.NextBlock = mergeID

	fb := b.m.SetBlock(falseID)
	fb.Instructions = []spirv.Instruction{inst(spirv.OpStore, u(chain), u(cTwo))}
	fb.Terminator = spirv.TerminatorBranch
	fb.NextBlock = mergeID

	mb := b.m.SetBlock(mergeID)
	mb.Terminator = spirv.TerminatorReturn

	fn.Blocks = []spirv.Id{headID, trueID, falseID, mergeID}
	fn.EntryBlock = headID

	source, err := Compile(b.m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	want := `    if ((ssbo.x > 0.0))
    {
        ssbo.x = 1.0;
    }
    else
    {
        ssbo.x = 2.0;
    }
`
	if !strings.Contains(source, want) {
		t.Errorf("expected if/else emission:\n%s", source)
	}
}

// TestVectorShuffle_TwoVectors checks that a shuffle drawing from two
// distinct vectors lands in a named temporary.
func TestVectorShuffle_TwoVectors(t *testing.T) {
	f, member := newStoreFixture(func(b *moduleBuilder) spirv.Id {
		return b.vecType(b.floatType(), 2)
	})
	b := f.b

	c1 := b.constF32(f.float, 0x3F800000)
	c2 := b.constF32(f.float, 0x40000000)
	vecA := b.id()
	conA := b.m.SetConstant(vecA, member)
	conA.Subconstants = []spirv.Id{c1, c1}
	vecB := b.id()
	conB := b.m.SetConstant(vecB, member)
	conB.Subconstants = []spirv.Id{c2, c2}

	chain := b.id()
	shuffle := b.id()
	b.entryFunction(spirv.ExecutionModelGLCompute, 0,
		inst(spirv.OpAccessChain, u(f.ptrFloat), u(chain), u(f.ssboVar), u(f.c0)),
		inst(spirv.OpVectorShuffle, u(member), u(shuffle), u(vecA), u(vecB), 0, 3),
		inst(spirv.OpStore, u(chain), u(shuffle)),
	)

	source, err := Compile(b.m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	decl := fmt.Sprintf("float2 _%d = float2(", shuffle)
	if !strings.Contains(source, decl) {
		t.Errorf("expected named temporary for two-vector shuffle:\n%s", source)
	}
	if !strings.Contains(source, fmt.Sprintf("ssbo.x = _%d;", shuffle)) {
		t.Errorf("expected store of the shuffle temporary:\n%s", source)
	}
}

func TestSelectEmission(t *testing.T) {
	f, _ := newStoreFixture(func(b *moduleBuilder) spirv.Id { return b.floatType() })
	b := f.b

	cTrue := b.id()
	ct := b.m.SetConstant(cTrue, f.boolT)
	ct.Scalar = 1
	cOne := b.constF32(f.float, 0x3F800000)
	cTwo := b.constF32(f.float, 0x40000000)

	chain := b.id()
	sel := b.id()
	b.entryFunction(spirv.ExecutionModelGLCompute, 0,
		inst(spirv.OpAccessChain, u(f.ptrFloat), u(chain), u(f.ssboVar), u(f.c0)),
		inst(spirv.OpSelect, u(f.float), u(sel), u(cTrue), u(cOne), u(cTwo)),
		inst(spirv.OpStore, u(chain), u(sel)),
	)

	source, err := Compile(b.m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !strings.Contains(source, "ssbo.x = (true ? 1.0 : 2.0);") {
		t.Errorf("expected ternary select:\n%s", source)
	}
}
