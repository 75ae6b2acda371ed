package msl

import (
	"testing"

	"github.com/gogpu/spvmsl/spirv"
)

func TestDeclaredStructMemberSize(t *testing.T) {
	b := newModuleBuilder()
	float := b.floatType()
	vec2 := b.vecType(float, 2)
	vec3 := b.vecType(float, 3)
	vec4 := b.vecType(float, 4)
	mat3 := b.matType(vec3, 3)

	st := b.structType("S", float, vec2, vec3, vec4, mat3)
	b.m.SetMemberDecoration(st, 4, spirv.DecorationColMajor)

	c := newTestCompiler(b.m)
	typ := b.m.Type(st)

	tests := []struct {
		index int
		want  uint32
	}{
		{0, 4},
		{1, 8},
		{2, 16}, // unpacked vec3 sizes as vec4
		{3, 16},
		{4, 48}, // 3 columns of rounded-up vec3
	}

	for _, tt := range tests {
		if got := c.declaredStructMemberSize(typ, tt.index); got != tt.want {
			t.Errorf("member %d size = %d, want %d", tt.index, got, tt.want)
		}
	}

	// A packed vec3 shrinks to 12 bytes with scalar alignment.
	b.m.SetMemberDecoration(st, 2, spirv.DecorationCPacked)
	if got := c.declaredStructMemberSize(typ, 2); got != 12 {
		t.Errorf("packed vec3 size = %d, want 12", got)
	}
	if got := c.declaredStructMemberAlignment(typ, 2); got != 4 {
		t.Errorf("packed vec3 alignment = %d, want 4", got)
	}
}

func TestDeclaredStructMemberSize_Array(t *testing.T) {
	b := newModuleBuilder()
	float := b.floatType()
	vec4 := b.vecType(float, 4)
	arr := b.arrayType(vec4, 5)

	st := b.structType("S", arr)
	b.m.SetMemberDecoration(st, 0, spirv.DecorationArrayStride, 16)

	c := newTestCompiler(b.m)
	if got := c.declaredStructMemberSize(b.m.Type(st), 0); got != 80 {
		t.Errorf("array member size = %d, want 80", got)
	}
}

func TestDeclaredStructMemberSize_OpaqueFails(t *testing.T) {
	b := newModuleBuilder()
	float := b.floatType()
	img := b.imageType(float, spirv.Dim2D, 1)
	st := b.structType("S", img)

	c := newTestCompiler(b.m)

	defer func() {
		r := recover()
		e, ok := r.(*Error)
		if !ok {
			t.Fatalf("expected *Error panic, got %v", r)
		}
		if e.Kind != ErrQueryOpaqueLayout {
			t.Errorf("expected ErrQueryOpaqueLayout, got %v", e.Kind)
		}
	}()
	c.declaredStructMemberSize(b.m.Type(st), 0)
}

// TestAlignStruct_PackAndPad checks both layout passes: a vec3 whose
// successor sits inside its rounded footprint gets packed, and a
// member past its natural cursor gets an inert padding field.
func TestAlignStruct_PackAndPad(t *testing.T) {
	b := newModuleBuilder()
	float := b.floatType()
	vec3 := b.vecType(float, 3)
	vec4 := b.vecType(float, 4)

	st := b.structType("S", vec3, float, vec4)
	b.m.SetMemberName(st, 0, "a")
	b.m.SetMemberName(st, 1, "b")
	b.m.SetMemberName(st, 2, "c")
	b.m.SetMemberDecoration(st, 0, spirv.DecorationOffset, 0)
	b.m.SetMemberDecoration(st, 1, spirv.DecorationOffset, 12)
	b.m.SetMemberDecoration(st, 2, spirv.DecorationOffset, 32)

	c := newTestCompiler(b.m)
	typ := b.m.Type(st)
	c.alignStruct(typ)

	if !c.memberIsPackedType(typ, 0) {
		t.Error("member a must be packed: member b sits at offset 12")
	}
	if c.memberIsPackedType(typ, 1) {
		t.Error("member b must not be packed")
	}

	// After packing, a ends at 12 and b at 16; c is declared at 32,
	// so 16 bytes of padding precede it.
	if got := c.structMemberPadding[memberKey{st, 2}]; got != 16 {
		t.Errorf("padding before c = %d, want 16", got)
	}

	// Invariant: declared_offset(i+1) - declared_offset(i) equals
	// size(i) + pad(i+1) for each adjacent pair.
	offsets := []uint32{0, 12, 32}
	for i := 0; i < 2; i++ {
		size := c.declaredStructMemberSize(typ, i)
		pad := c.structMemberPadding[memberKey{st, i + 1}]
		if offsets[i+1]-offsets[i] != size+pad {
			t.Errorf("member %d: offset delta %d != size %d + pad %d",
				i, offsets[i+1]-offsets[i], size, pad)
		}
	}
}

func TestAlignStruct_NoPaddingWhenTight(t *testing.T) {
	b := newModuleBuilder()
	float := b.floatType()
	vec4 := b.vecType(float, 4)

	st := b.structType("S", vec4, float)
	b.m.SetMemberDecoration(st, 0, spirv.DecorationOffset, 0)
	b.m.SetMemberDecoration(st, 1, spirv.DecorationOffset, 16)

	c := newTestCompiler(b.m)
	c.alignStruct(b.m.Type(st))

	if len(c.structMemberPadding) != 0 {
		t.Errorf("expected no padding, got %v", c.structMemberPadding)
	}
}
