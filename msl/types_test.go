package msl

import (
	"testing"

	"github.com/gogpu/spvmsl/spirv"
)

func TestTypeToGlsl_Scalars(t *testing.T) {
	b := newModuleBuilder()
	c := newTestCompiler(b.m)

	mk := func(base spirv.BaseType, width uint32) *spirv.Type {
		id := b.id()
		typ := b.m.SetType(id)
		typ.Base = base
		typ.Width = width
		return typ
	}

	tests := []struct {
		typ  *spirv.Type
		want string
	}{
		{mk(spirv.BaseVoid, 0), "void"},
		{mk(spirv.BaseBool, 32), "bool"},
		{mk(spirv.BaseChar, 8), "char"},
		{mk(spirv.BaseInt, 32), "int"},
		{mk(spirv.BaseInt, 16), "short"},
		{mk(spirv.BaseUInt, 32), "uint"},
		{mk(spirv.BaseUInt, 16), "ushort"},
		{mk(spirv.BaseInt64, 64), "long"},
		{mk(spirv.BaseUInt64, 64), "size_t"},
		{mk(spirv.BaseFloat, 32), "float"},
		{mk(spirv.BaseFloat, 16), "half"},
		{mk(spirv.BaseDouble, 64), "double"},
		{mk(spirv.BaseSampler, 0), "sampler"},
		{mk(spirv.BaseAtomicCounter, 0), "atomic_uint"},
	}

	for _, tt := range tests {
		if got := c.typeToGlsl(tt.typ); got != tt.want {
			t.Errorf("typeToGlsl(%v/%d) = %q, want %q", tt.typ.Base, tt.typ.Width, got, tt.want)
		}
	}
}

func TestTypeToGlsl_VectorsAndMatrices(t *testing.T) {
	b := newModuleBuilder()
	c := newTestCompiler(b.m)

	float := b.floatType()
	vec2 := b.vecType(float, 2)
	vec4 := b.vecType(float, 4)
	mat4 := b.matType(vec4, 4)
	mat2x4 := b.matType(vec4, 2)
	intT := b.intType()
	ivec3 := b.vecType(intT, 3)

	tests := []struct {
		id   spirv.Id
		want string
	}{
		{vec2, "float2"},
		{vec4, "float4"},
		{mat4, "float4x4"},
		{mat2x4, "float2x4"},
		{ivec3, "int3"},
	}

	for _, tt := range tests {
		if got := c.typeToGlsl(b.m.Type(tt.id)); got != tt.want {
			t.Errorf("typeToGlsl(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestImageTypeGlsl(t *testing.T) {
	b := newModuleBuilder()
	c := newTestCompiler(b.m)
	float := b.floatType()

	mk := func(dim spirv.Dim, depth, arrayed, ms bool, sampled uint32) *spirv.Type {
		id := b.id()
		typ := b.m.SetType(id)
		typ.Base = spirv.BaseImage
		typ.Image = spirv.ImageDesc{
			SampledType: float,
			Dim:         dim,
			Depth:       depth,
			Arrayed:     arrayed,
			MS:          ms,
			Sampled:     sampled,
			Access:      spirv.AccessQualifierNone,
		}
		return typ
	}

	tests := []struct {
		typ  *spirv.Type
		want string
	}{
		{mk(spirv.Dim1D, false, false, false, 1), "texture1d<float>"},
		{mk(spirv.Dim2D, false, false, false, 1), "texture2d<float>"},
		{mk(spirv.Dim2D, false, true, false, 1), "texture2d_array<float>"},
		{mk(spirv.Dim2D, false, false, true, 1), "texture2d_ms<float>"},
		{mk(spirv.Dim3D, false, false, false, 1), "texture3d<float>"},
		{mk(spirv.DimCube, false, false, false, 1), "texturecube<float>"},
		{mk(spirv.DimCube, false, true, false, 1), "texturecube_array<float>"},
		{mk(spirv.Dim2D, true, false, false, 1), "depth2d<float>"},
		{mk(spirv.Dim2D, true, true, false, 1), "depth2d_array<float>"},
		{mk(spirv.Dim2D, true, false, true, 1), "depth2d_ms<float>"},
		{mk(spirv.DimCube, true, false, false, 1), "depthcube<float>"},
	}

	for _, tt := range tests {
		if got := c.imageTypeGlsl(tt.typ, 0); got != tt.want {
			t.Errorf("imageTypeGlsl = %q, want %q", got, tt.want)
		}
	}
}

func TestImageTypeGlsl_ExplicitAccess(t *testing.T) {
	b := newModuleBuilder()
	c := newTestCompiler(b.m)
	float := b.floatType()

	id := b.id()
	typ := b.m.SetType(id)
	typ.Base = spirv.BaseImage
	typ.Image = spirv.ImageDesc{
		SampledType: float,
		Dim:         spirv.Dim2D,
		Sampled:     2,
		Access:      spirv.AccessQualifierReadWrite,
	}

	if got := c.imageTypeGlsl(typ, 0); got != "texture2d<float, access::read_write>" {
		t.Errorf("imageTypeGlsl = %q", got)
	}
}

func TestBitcastGlslOp(t *testing.T) {
	b := newModuleBuilder()
	c := newTestCompiler(b.m)

	float := b.m.Type(b.floatType())
	uintT := b.m.Type(b.uintType())
	intT := b.m.Type(b.intType())

	tests := []struct {
		out, in *spirv.Type
		want    string
	}{
		{uintT, intT, "uint"},
		{intT, uintT, "int"},
		{uintT, float, "as_type<uint>"},
		{float, intT, "as_type<float>"},
	}

	for _, tt := range tests {
		if got := c.bitcastGlslOp(tt.out, tt.in); got != tt.want {
			t.Errorf("bitcastGlslOp(%v, %v) = %q, want %q", tt.out.Base, tt.in.Base, got, tt.want)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{1, "1.0"},
		{0.5, "0.5"},
		{-2, "-2.0"},
		{0.25, "0.25"},
	}

	for _, tt := range tests {
		if got := formatFloat(tt.v); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestConstantExpression_Composite(t *testing.T) {
	b := newModuleBuilder()
	float := b.floatType()
	vec2 := b.vecType(float, 2)

	c1 := b.constF32(float, 0x3F800000) // 1.0
	c2 := b.constF32(float, 0x40000000) // 2.0

	comp := b.id()
	con := b.m.SetConstant(comp, vec2)
	con.Subconstants = []spirv.Id{c1, c2}

	c := newTestCompiler(b.m)
	if got := c.constantExpression(con); got != "float2(1.0, 2.0)" {
		t.Errorf("constantExpression = %q", got)
	}
}
