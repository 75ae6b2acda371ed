package msl

import (
	"strings"
	"testing"

	"github.com/gogpu/spvmsl/spirv"
)

// buildExtInstModule builds a compute shader storing the result of one
// GLSL.std.450 opcode into a buffer member.
func buildExtInstModule(op spirv.GLSLstd450, argCount int) *spirv.Module {
	b := newModuleBuilder()
	b.voidType()
	float := b.floatType()
	uintT := b.uintType()

	ssbo := b.structType("SSBO", float)
	b.m.SetDecoration(ssbo, spirv.DecorationBufferBlock)
	b.m.SetMemberName(ssbo, 0, "x")
	b.m.SetMemberDecoration(ssbo, 0, spirv.DecorationOffset, 0)
	ptrSSBO := b.ptrType(spirv.StorageClassUniform, ssbo)
	ssboVar := b.variable("ssbo", ptrSSBO, spirv.StorageClassUniform)
	ptrFloat := b.ptrType(spirv.StorageClassUniform, float)

	set := b.id()
	b.m.ExtInstImports[set] = "GLSL.std.450"

	c0 := b.constU32(uintT, 0)
	c1 := b.constF32(float, 0x3F800000) // 1.0
	c2 := b.constF32(float, 0x40000000) // 2.0

	chain := b.id()
	ext := b.id()

	words := []uint32{u(float), u(ext), u(set), uint32(op)}
	args := []spirv.Id{c1, c2, c1}
	for i := 0; i < argCount; i++ {
		words = append(words, u(args[i]))
	}

	b.entryFunction(spirv.ExecutionModelGLCompute, 0,
		inst(spirv.OpAccessChain, u(ptrFloat), u(chain), u(ssboVar), u(c0)),
		inst(spirv.OpExtInst, words...),
		inst(spirv.OpStore, u(chain), u(ext)),
	)
	return b.m
}

func TestGlslOp_Remaps(t *testing.T) {
	tests := []struct {
		op       spirv.GLSLstd450
		argCount int
		want     string
	}{
		{spirv.GLSLstd450Atan2, 2, "ssbo.x = atan2(1.0, 2.0);"},
		{spirv.GLSLstd450InverseSqrt, 1, "ssbo.x = rsqrt(1.0);"},
		{spirv.GLSLstd450RoundEven, 1, "ssbo.x = rint(1.0);"},
		{spirv.GLSLstd450FindSMsb, 1, "ssbo.x = findSMSB(1.0);"},
		{spirv.GLSLstd450FindUMsb, 1, "ssbo.x = findUMSB(1.0);"},
		{spirv.GLSLstd450FMix, 3, "ssbo.x = mix(1.0, 2.0, 1.0);"},
		{spirv.GLSLstd450PackHalf2x16, 1, "ssbo.x = unsupported_GLSLstd450PackHalf2x16(1.0);"},
		{spirv.GLSLstd450UnpackHalf2x16, 1, "ssbo.x = unsupported_GLSLstd450UnpackHalf2x16(1.0);"},
		{spirv.GLSLstd450PackDouble2x32, 1, "ssbo.x = unsupported_GLSLstd450PackDouble2x32(1.0);"},
	}

	for _, tt := range tests {
		source, err := Compile(buildExtInstModule(tt.op, tt.argCount), DefaultOptions())
		if err != nil {
			t.Fatalf("op %d: Compile failed: %v", tt.op, err)
		}
		if !strings.Contains(source, tt.want) {
			t.Errorf("op %d: output missing %q:\n%s", tt.op, tt.want, source)
		}
	}
}

// TestGlslOp_FindMsbHelpers checks that the findMSB helpers are
// injected and return -1 on zero input through select and clz.
func TestGlslOp_FindMsbHelpers(t *testing.T) {
	source, err := Compile(buildExtInstModule(spirv.GLSLstd450FindSMsb, 1), DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !strings.Contains(source, "T findSMSB(T x)") {
		t.Error("expected findSMSB helper definition")
	}
	if !strings.Contains(source, "return select(clz(T(0)) - (clz(v) + T(1)), T(-1), v == T(0));") {
		t.Error("expected select/clz body in findSMSB helper")
	}
	if !strings.Contains(source, "#pragma clang diagnostic ignored \"-Wmissing-prototypes\"") {
		t.Error("expected missing-prototypes pragma when helpers are emitted")
	}
}

// TestGlslOp_MatrixInverse checks dispatch by column count and the
// helper emission.
func TestGlslOp_MatrixInverse(t *testing.T) {
	b := newModuleBuilder()
	b.voidType()
	float := b.floatType()
	uintT := b.uintType()
	vec3 := b.vecType(float, 3)
	mat3 := b.matType(vec3, 3)

	ssbo := b.structType("SSBO", mat3)
	b.m.SetDecoration(ssbo, spirv.DecorationBufferBlock)
	b.m.SetMemberName(ssbo, 0, "m")
	b.m.SetMemberDecoration(ssbo, 0, spirv.DecorationOffset, 0)
	b.m.SetMemberDecoration(ssbo, 0, spirv.DecorationColMajor)
	ptrSSBO := b.ptrType(spirv.StorageClassUniform, ssbo)
	ssboVar := b.variable("ssbo", ptrSSBO, spirv.StorageClassUniform)
	ptrMat := b.ptrType(spirv.StorageClassUniform, mat3)

	set := b.id()
	b.m.ExtInstImports[set] = "GLSL.std.450"
	c0 := b.constU32(uintT, 0)

	chain := b.id()
	load := b.id()
	ext := b.id()
	b.entryFunction(spirv.ExecutionModelGLCompute, 0,
		inst(spirv.OpAccessChain, u(ptrMat), u(chain), u(ssboVar), u(c0)),
		inst(spirv.OpLoad, u(mat3), u(load), u(chain)),
		inst(spirv.OpExtInst, u(mat3), u(ext), u(set), uint32(spirv.GLSLstd450MatrixInverse), u(load)),
		inst(spirv.OpStore, u(chain), u(ext)),
	)

	source, err := Compile(b.m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !strings.Contains(source, "ssbo.m = spvInverse3x3(ssbo.m);") {
		t.Errorf("expected spvInverse3x3 call:\n%s", source)
	}
	if !strings.Contains(source, "float3x3 spvInverse3x3(float3x3 m)") {
		t.Error("expected spvInverse3x3 helper definition")
	}
	if !strings.Contains(source, "inline float spvDet2x2(float a1, float a2, float b1, float b2)") {
		t.Error("expected spvDet2x2 helper definition")
	}
}

// TestFMod_UsesModHelper checks that OpFMod routes through the GLSL
// mod() helper rather than Metal fmod().
func TestFMod_UsesModHelper(t *testing.T) {
	b := newModuleBuilder()
	b.voidType()
	float := b.floatType()
	uintT := b.uintType()

	ssbo := b.structType("SSBO", float)
	b.m.SetDecoration(ssbo, spirv.DecorationBufferBlock)
	b.m.SetMemberName(ssbo, 0, "x")
	b.m.SetMemberDecoration(ssbo, 0, spirv.DecorationOffset, 0)
	ptrSSBO := b.ptrType(spirv.StorageClassUniform, ssbo)
	ssboVar := b.variable("ssbo", ptrSSBO, spirv.StorageClassUniform)
	ptrFloat := b.ptrType(spirv.StorageClassUniform, float)

	c0 := b.constU32(uintT, 0)
	c1 := b.constF32(float, 0x40A00000) // 5.0
	c2 := b.constF32(float, 0x40000000) // 2.0

	chain := b.id()
	mod := b.id()
	b.entryFunction(spirv.ExecutionModelGLCompute, 0,
		inst(spirv.OpAccessChain, u(ptrFloat), u(chain), u(ssboVar), u(c0)),
		inst(spirv.OpFMod, u(float), u(mod), u(c1), u(c2)),
		inst(spirv.OpStore, u(chain), u(mod)),
	)

	source, err := Compile(b.m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !strings.Contains(source, "ssbo.x = mod(5.0, 2.0);") {
		t.Errorf("expected mod() call:\n%s", source)
	}
	if !strings.Contains(source, "Tx mod(Tx x, Ty y)") {
		t.Error("expected mod helper definition")
	}
	if !strings.Contains(source, "return x - y * floor(x / y);") {
		t.Error("expected mod helper body")
	}
}
