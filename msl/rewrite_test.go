package msl

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gogpu/spvmsl/spirv"
)

// TestLocalizeGlobalVariables checks that Private and Workgroup
// globals move into the entry function, the latter keeping a
// threadgroup qualifier.
func TestLocalizeGlobalVariables(t *testing.T) {
	b := newModuleBuilder()
	b.voidType()
	float := b.floatType()
	ptrPriv := b.ptrType(spirv.StorageClassPrivate, float)
	ptrWG := b.ptrType(spirv.StorageClassWorkgroup, float)

	c1 := b.constF32(float, 0x3F800000) // 1.0
	privVar := b.variable("gp", ptrPriv, spirv.StorageClassPrivate)
	b.m.Variable(privVar).Initializer = c1
	wgVar := b.variable("shared_x", ptrWG, spirv.StorageClassWorkgroup)

	b.entryFunction(spirv.ExecutionModelGLCompute, 0,
		inst(spirv.OpStore, u(wgVar), u(c1)),
		inst(spirv.OpStore, u(privVar), u(c1)),
	)

	source, err := Compile(b.m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !strings.Contains(source, "float gp = 1.0;") {
		t.Errorf("expected localized private variable with initializer:\n%s", source)
	}
	if !strings.Contains(source, "threadgroup float shared_x;") {
		t.Errorf("expected threadgroup-qualified local:\n%s", source)
	}
	if b.m.Variable(privVar).Storage != spirv.StorageClassFunction {
		t.Error("private variable must be reclassed to Function storage")
	}
	if b.m.Variable(wgVar).Storage != spirv.StorageClassFunction {
		t.Error("workgroup variable must be reclassed to Function storage")
	}
}

// TestExtractGlobalsIntoSignatures checks that a helper function
// reading a uniform gains a trailing pass-through parameter and the
// call site passes it along.
func TestExtractGlobalsIntoSignatures(t *testing.T) {
	b := newModuleBuilder()
	void := b.voidType()
	float := b.floatType()
	uintT := b.uintType()

	ubo := b.structType("UBO", float)
	b.m.SetDecoration(ubo, spirv.DecorationBlock)
	b.m.SetMemberName(ubo, 0, "scale")
	b.m.SetMemberDecoration(ubo, 0, spirv.DecorationOffset, 0)
	ptrUBO := b.ptrType(spirv.StorageClassUniform, ubo)
	uboVar := b.variable("ubo", ptrUBO, spirv.StorageClassUniform)

	ssbo := b.structType("SSBO", float)
	b.m.SetDecoration(ssbo, spirv.DecorationBufferBlock)
	b.m.SetMemberName(ssbo, 0, "x")
	b.m.SetMemberDecoration(ssbo, 0, spirv.DecorationOffset, 0)
	ptrSSBO := b.ptrType(spirv.StorageClassUniform, ssbo)
	ssboVar := b.variable("ssbo", ptrSSBO, spirv.StorageClassUniform)

	ptrUniformFloat := b.ptrType(spirv.StorageClassUniform, float)
	c0 := b.constU32(uintT, 0)

	// Helper reads ubo.scale.
	helperID := b.id()
	helper := b.m.SetFunction(helperID, float)
	b.m.SetName(helperID, "read_scale")
	hBlock := b.id()
	hb := b.m.SetBlock(hBlock)
	hChain := b.id()
	hLoad := b.id()
	hb.Instructions = []spirv.Instruction{
		inst(spirv.OpAccessChain, u(ptrUniformFloat), u(hChain), u(uboVar), u(c0)),
		inst(spirv.OpLoad, u(float), u(hLoad), u(hChain)),
	}
	hb.Terminator = spirv.TerminatorReturn
	hb.ReturnValue = hLoad
	helper.Blocks = []spirv.Id{hBlock}
	helper.EntryBlock = hBlock

	// Entry calls the helper and stores the result.
	chain := b.id()
	call := b.id()
	b.entryFunction(spirv.ExecutionModelGLCompute, void,
		inst(spirv.OpAccessChain, u(ptrUniformFloat), u(chain), u(ssboVar), u(c0)),
		inst(spirv.OpFunctionCall, u(float), u(call), u(helperID)),
		inst(spirv.OpStore, u(chain), u(call)),
	)

	source, err := Compile(b.m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !strings.Contains(source, "float read_scale(constant UBO& ubo)") {
		t.Errorf("expected pass-through parameter on helper:\n%s", source)
	}
	if !strings.Contains(source, fmt.Sprintf("float _%d = read_scale(ubo);", call)) {
		t.Errorf("expected call site to pass the global:\n%s", source)
	}
	if !strings.Contains(source, "return ubo.scale;") {
		t.Errorf("expected helper body to read the member:\n%s", source)
	}
	if !strings.Contains(source, fmt.Sprintf("ssbo.x = _%d;", call)) {
		t.Errorf("expected store of the call temporary:\n%s", source)
	}

	// The helper's global set is memoized and its globals appear as
	// parameters.
	helperFn := b.m.Function(helperID)
	if len(helperFn.Parameters) != 1 || helperFn.Parameters[0].AliasGlobal != uboVar {
		t.Errorf("expected one pass-through parameter aliasing the uniform, got %+v", helperFn.Parameters)
	}
}

func TestResolveSpecializedArrayLengths(t *testing.T) {
	b := newModuleBuilder()
	uintT := b.uintType()
	scID := b.constU32(uintT, 4)
	con := b.m.Constant(scID)
	con.Specialization = true
	con.UsedAsArrayLength = true

	c := newTestCompiler(b.m)
	c.resolveSpecializedArrayLengths()

	if con.Specialization {
		t.Error("specialization flag must be cleared for array-length constants")
	}
}

// TestSpecializationConstants checks the function_constant declaration
// pair for scalar spec constants.
func TestSpecializationConstants(t *testing.T) {
	b := newModuleBuilder()
	b.voidType()
	uintT := b.uintType()

	sc := b.constU32(uintT, 42)
	scCon := b.m.Constant(sc)
	scCon.Specialization = true
	b.m.SetName(sc, "count")
	b.m.SetDecoration(sc, spirv.DecorationSpecID, 10)

	ssbo := b.structType("SSBO", uintT)
	b.m.SetDecoration(ssbo, spirv.DecorationBufferBlock)
	b.m.SetMemberName(ssbo, 0, "x")
	b.m.SetMemberDecoration(ssbo, 0, spirv.DecorationOffset, 0)
	ptrSSBO := b.ptrType(spirv.StorageClassUniform, ssbo)
	ssboVar := b.variable("ssbo", ptrSSBO, spirv.StorageClassUniform)
	ptrUint := b.ptrType(spirv.StorageClassUniform, uintT)
	c0 := b.constU32(uintT, 0)

	chain := b.id()
	b.entryFunction(spirv.ExecutionModelGLCompute, 0,
		inst(spirv.OpAccessChain, u(ptrUint), u(chain), u(ssboVar), u(c0)),
		inst(spirv.OpStore, u(chain), u(sc)),
	)

	source, err := Compile(b.m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !strings.Contains(source, "constant uint count_tmp [[function_constant(10)]];") {
		t.Errorf("expected function_constant declaration:\n%s", source)
	}
	if !strings.Contains(source, "constant uint count = is_function_constant_defined(count_tmp) ? count_tmp : 42u;") {
		t.Errorf("expected fallback declaration:\n%s", source)
	}
	if !strings.Contains(source, "ssbo.x = count;") {
		t.Errorf("expected use by name:\n%s", source)
	}
}

// TestComputeBuiltinArgument checks the direct built-in entry argument
// of a compute shader.
func TestComputeBuiltinArgument(t *testing.T) {
	b := newModuleBuilder()
	b.voidType()
	uintT := b.uintType()
	uvec3 := b.vecType(uintT, 3)
	ptrIn := b.ptrType(spirv.StorageClassInput, uvec3)

	gid := b.variable("gl_GlobalInvocationID", ptrIn, spirv.StorageClassInput)
	b.m.SetDecoration(gid, spirv.DecorationBuiltIn, uint32(spirv.BuiltInGlobalInvocationID))

	ssbo := b.structType("SSBO", uintT)
	b.m.SetDecoration(ssbo, spirv.DecorationBufferBlock)
	b.m.SetMemberName(ssbo, 0, "x")
	b.m.SetMemberDecoration(ssbo, 0, spirv.DecorationOffset, 0)
	ptrSSBO := b.ptrType(spirv.StorageClassUniform, ssbo)
	ssboVar := b.variable("ssbo", ptrSSBO, spirv.StorageClassUniform)
	ptrUint := b.ptrType(spirv.StorageClassUniform, uintT)
	ptrInUint := b.ptrType(spirv.StorageClassInput, uintT)
	c0 := b.constU32(uintT, 0)

	gidChain := b.id()
	gidLoad := b.id()
	chain := b.id()
	b.entryFunction(spirv.ExecutionModelGLCompute, 0,
		inst(spirv.OpAccessChain, u(ptrInUint), u(gidChain), u(gid), u(c0)),
		inst(spirv.OpLoad, u(uintT), u(gidLoad), u(gidChain)),
		inst(spirv.OpAccessChain, u(ptrUint), u(chain), u(ssboVar), u(c0)),
		inst(spirv.OpStore, u(chain), u(gidLoad)),
	)

	source, err := Compile(b.m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !strings.Contains(source, "uint3 gl_GlobalInvocationID [[thread_position_in_grid]]") {
		t.Errorf("expected built-in entry argument:\n%s", source)
	}
	if !strings.Contains(source, "ssbo.x = gl_GlobalInvocationID.x;") {
		t.Errorf("expected swizzled component read:\n%s", source)
	}
}
