// Package spvmsl translates SPIR-V shader modules into Metal Shading
// Language source.
//
// The top-level Translate function covers the common path; the spirv
// and msl packages expose the parsed IR and backend options for finer
// control.
package spvmsl

import (
	"fmt"

	"github.com/gogpu/spvmsl/msl"
	"github.com/gogpu/spvmsl/spirv"
)

// TranslateOptions configures a translation.
type TranslateOptions struct {
	// MSL holds the backend options.
	MSL msl.Options

	// VertexAttrs maps vertex attribute locations to Metal buffers.
	VertexAttrs []*msl.VertexAttrBinding

	// ResourceBindings maps descriptor sets and bindings to Metal
	// resource slots.
	ResourceBindings []*msl.ResourceBinding
}

// Translate compiles a SPIR-V binary to MSL source.
func Translate(data []byte) (string, error) {
	return TranslateWithOptions(data, TranslateOptions{MSL: msl.DefaultOptions()})
}

// TranslateWithOptions compiles a SPIR-V binary to MSL source with
// explicit options and binding tables.
func TranslateWithOptions(data []byte, opts TranslateOptions) (string, error) {
	words, err := spirv.WordsFromBytes(data)
	if err != nil {
		return "", fmt.Errorf("spvmsl: %w", err)
	}
	module, err := spirv.Parse(words)
	if err != nil {
		return "", fmt.Errorf("spvmsl: %w", err)
	}
	source, err := msl.CompileWithTables(module, opts.MSL, opts.VertexAttrs, opts.ResourceBindings)
	if err != nil {
		return "", fmt.Errorf("spvmsl: %w", err)
	}
	return source, nil
}
