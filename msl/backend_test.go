package msl

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/spvmsl/spirv"
)

func TestVersion_String(t *testing.T) {
	tests := []struct {
		version Version
		want    string
	}{
		{Version{1, 2}, "1.2"},
		{Version{2, 0}, "2.0"},
		{Version{2, 1}, "2.1"},
	}

	for _, tt := range tests {
		got := tt.version.String()
		if got != tt.want {
			t.Errorf("Version{%d, %d}.String() = %q, want %q",
				tt.version.Major, tt.version.Minor, got, tt.want)
		}
	}
}

func TestVersion_AtLeast(t *testing.T) {
	tests := []struct {
		version      Version
		major, minor uint8
		want         bool
	}{
		{Version{2, 0}, 2, 0, true},
		{Version{2, 1}, 2, 0, true},
		{Version{1, 2}, 2, 0, false},
		{Version{3, 0}, 2, 1, true},
	}

	for _, tt := range tests {
		if got := tt.version.AtLeast(tt.major, tt.minor); got != tt.want {
			t.Errorf("%v.AtLeast(%d, %d) = %v, want %v", tt.version, tt.major, tt.minor, got, tt.want)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.LangVersion != Version1_2 {
		t.Errorf("Expected LangVersion 1.2, got %v", opts.LangVersion)
	}
	if !opts.ResolveSpecializedArrayLengths {
		t.Error("Expected ResolveSpecializedArrayLengths to be true")
	}
	if !opts.EnablePointSizeBuiltin {
		t.Error("Expected EnablePointSizeBuiltin to be true")
	}
}

func TestCompile_NoEntryPoint(t *testing.T) {
	_, err := Compile(spirv.NewModule(), DefaultOptions())
	if err == nil {
		t.Fatal("expected error for module without entry point")
	}

	var mslErr *Error
	if !errors.As(err, &mslErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if mslErr.Kind != ErrInvalidModule {
		t.Errorf("expected ErrInvalidModule, got %v", mslErr.Kind)
	}
}

// buildVertexPassthrough builds a vertex shader reading one vec4
// attribute into gl_Position.
func buildVertexPassthrough() *spirv.Module {
	b := newModuleBuilder()
	b.voidType()
	float := b.floatType()
	vec4 := b.vecType(float, 4)
	ptrIn := b.ptrType(spirv.StorageClassInput, vec4)
	ptrOut := b.ptrType(spirv.StorageClassOutput, vec4)

	aPos := b.variable("a_pos", ptrIn, spirv.StorageClassInput)
	b.m.SetDecoration(aPos, spirv.DecorationLocation, 0)

	glPos := b.variable("gl_Position", ptrOut, spirv.StorageClassOutput)
	b.m.SetDecoration(glPos, spirv.DecorationBuiltIn, uint32(spirv.BuiltInPosition))

	load := b.id()
	b.entryFunction(spirv.ExecutionModelVertex, 0,
		inst(spirv.OpLoad, u(vec4), u(load), u(aPos)),
		inst(spirv.OpStore, u(glPos), u(load)),
	)
	return b.m
}

func TestCompile_VertexPassthrough(t *testing.T) {
	source, err := Compile(buildVertexPassthrough(), DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	want := `#include <metal_stdlib>
#include <simd/simd.h>

using namespace metal;

struct main0_in
{
    float4 a_pos [[attribute(0)]];
};

struct main0_out
{
    float4 gl_Position [[position]];
};

vertex main0_out main0(main0_in in [[stage_in]])
{
    main0_out out = {};
    out.gl_Position = in.a_pos;
    return out;
}

`
	if source != want {
		t.Errorf("unexpected output:\n--- got ---\n%s\n--- want ---\n%s", source, want)
	}
}

func TestCompile_FlipVertY(t *testing.T) {
	opts := DefaultOptions()
	opts.Vertex.FlipVertY = true

	source, err := Compile(buildVertexPassthrough(), opts)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	idx := strings.Index(source, "out.gl_Position.y = -(out.gl_Position.y);")
	if idx < 0 {
		t.Fatalf("expected Y-flip fixup in output:\n%s", source)
	}
	ret := strings.Index(source, "return out;")
	if ret < idx {
		t.Error("fixup must precede the return of the output struct")
	}
}

func TestCompile_FixupClipspace(t *testing.T) {
	opts := DefaultOptions()
	opts.Vertex.FixupClipspace = true

	source, err := Compile(buildVertexPassthrough(), opts)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !strings.Contains(source, "out.gl_Position.z = (out.gl_Position.z + out.gl_Position.w) * 0.5;") {
		t.Errorf("expected clip-space fixup in output:\n%s", source)
	}
}

func TestCompile_RenamesIllegalEntryPointName(t *testing.T) {
	source, err := Compile(buildVertexPassthrough(), DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !strings.Contains(source, "vertex main0_out main0(") {
		t.Errorf("entry point main must be renamed main0:\n%s", source)
	}
}

func TestCompile_InvalidInterface_FragmentMatrixInput(t *testing.T) {
	b := newModuleBuilder()
	b.voidType()
	float := b.floatType()
	vec4 := b.vecType(float, 4)
	mat4 := b.matType(vec4, 4)
	ptrIn := b.ptrType(spirv.StorageClassInput, mat4)

	mtx := b.variable("v_mtx", ptrIn, spirv.StorageClassInput)
	b.m.SetDecoration(mtx, spirv.DecorationLocation, 0)

	load := b.id()
	b.entryFunction(spirv.ExecutionModelFragment, 0,
		inst(spirv.OpLoad, u(mat4), u(load), u(mtx)),
	)

	_, err := Compile(b.m, DefaultOptions())
	var mslErr *Error
	if !errors.As(err, &mslErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if mslErr.Kind != ErrInvalidInterface {
		t.Errorf("expected ErrInvalidInterface, got %v", mslErr.Kind)
	}
}
