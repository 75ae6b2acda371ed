package spvmsl

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/gogpu/spvmsl/spirv"
)

// minimalVertexBinary encodes a vertex module with an empty main.
func minimalVertexBinary() []byte {
	words := []uint32{spirv.MagicNumber, 0x00010000, 0, 10, 0}
	add := func(op spirv.Op, operands ...uint32) {
		words = append(words, uint32(len(operands)+1)<<16|uint32(op))
		words = append(words, operands...)
	}

	const mainWord = 0x6E69616D
	add(spirv.OpEntryPoint, 0, 4, mainWord, 0)
	add(spirv.OpTypeVoid, 1)
	add(spirv.OpTypeFunction, 2, 1)
	add(spirv.OpFunction, 1, 4, 0, 2)
	add(spirv.OpLabel, 5)
	add(spirv.OpReturn)
	add(spirv.OpFunctionEnd)

	data := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}
	return data
}

func TestTranslate(t *testing.T) {
	source, err := Translate(minimalVertexBinary())
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	for _, want := range []string{
		"#include <metal_stdlib>",
		"#include <simd/simd.h>",
		"using namespace metal;",
		"vertex void main0()",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("output missing %q:\n%s", want, source)
		}
	}
}

func TestTranslate_BadInput(t *testing.T) {
	if _, err := Translate([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for unaligned input")
	}
	if _, err := Translate([]byte{1, 2, 3, 4, 5, 6, 7, 8}); err == nil {
		t.Error("expected error for bad magic")
	}
}
