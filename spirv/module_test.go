package spirv

import "testing"

func TestModule_Decorations(t *testing.T) {
	m := NewModule()

	m.SetDecoration(5, DecorationLocation, 3)
	if !m.HasDecoration(5, DecorationLocation) {
		t.Error("expected Location decoration")
	}
	if m.Decoration(5, DecorationLocation) != 3 {
		t.Errorf("Location = %d, want 3", m.Decoration(5, DecorationLocation))
	}

	m.UnsetDecoration(5, DecorationLocation)
	if m.HasDecoration(5, DecorationLocation) {
		t.Error("decoration must be removed")
	}

	m.SetDecoration(5, DecorationBuiltIn, uint32(BuiltInPosition))
	if m.Meta(5).BuiltIn != BuiltInPosition {
		t.Errorf("BuiltIn = %v", m.Meta(5).BuiltIn)
	}
}

func TestModule_MemberDecorations(t *testing.T) {
	m := NewModule()

	m.SetMemberDecoration(7, 2, DecorationOffset, 16)
	if !m.HasMemberDecoration(7, 2, DecorationOffset) {
		t.Error("expected member Offset decoration")
	}
	if m.MemberDecoration(7, 2, DecorationOffset) != 16 {
		t.Errorf("Offset = %d, want 16", m.MemberDecoration(7, 2, DecorationOffset))
	}
	if m.HasMemberDecoration(7, 1, DecorationOffset) {
		t.Error("member 1 must not be decorated")
	}

	m.SetMemberDecoration(7, 0, DecorationBuiltIn, uint32(BuiltInPosition))
	if m.MemberBuiltIn(7, 0) != BuiltInPosition {
		t.Errorf("member builtin = %v", m.MemberBuiltIn(7, 0))
	}
	if m.MemberBuiltIn(7, 1) != BuiltInNone {
		t.Error("member 1 must have no builtin")
	}
}

func TestModule_Names(t *testing.T) {
	m := NewModule()

	if got := m.Name(9); got != "_9" {
		t.Errorf("fallback name = %q, want _9", got)
	}
	m.SetName(9, "color")
	if got := m.Name(9); got != "color" {
		t.Errorf("name = %q, want color", got)
	}

	m.SetMemberName(9, 1, "x")
	if got := m.MemberName(9, 1); got != "x" {
		t.Errorf("member name = %q, want x", got)
	}
	if got := m.MemberName(9, 0); got != "_m0" {
		t.Errorf("member fallback = %q, want _m0", got)
	}
}

func TestModule_CopyMeta(t *testing.T) {
	m := NewModule()
	m.SetName(3, "ubo")
	m.SetDecoration(3, DecorationBinding, 2)
	m.Meta(3).QualifiedAlias = "in.ubo"

	m.CopyMeta(8, 3)

	if m.Name(8) != "ubo" {
		t.Errorf("copied name = %q", m.Name(8))
	}
	if m.Decoration(8, DecorationBinding) != 2 {
		t.Error("copied binding lost")
	}
	if m.Meta(8).QualifiedAlias != "in.ubo" {
		t.Error("copied qualified alias lost")
	}

	// The copy must be independent.
	m.SetDecoration(8, DecorationBinding, 5)
	if m.Decoration(3, DecorationBinding) != 2 {
		t.Error("source meta must not change")
	}
}

func TestModule_IncreaseBound(t *testing.T) {
	m := NewModule()
	first := m.IncreaseBound(3)
	if first != 1 || m.Bound != 4 {
		t.Errorf("IncreaseBound: first=%d bound=%d", first, m.Bound)
	}
}

func TestFunction_AddLocalVariable(t *testing.T) {
	f := &Function{}
	f.AddLocalVariable(5)
	f.AddLocalVariable(5)
	f.AddLocalVariable(6)
	if len(f.LocalVariables) != 2 {
		t.Errorf("locals = %v", f.LocalVariables)
	}
}
