package msl

import (
	"fmt"

	"github.com/gogpu/spvmsl/spirv"
)

// Version represents an MSL language version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common MSL versions.
var (
	Version1_2 = Version{Major: 1, Minor: 2}
	Version2_0 = Version{Major: 2, Minor: 0}
	Version2_1 = Version{Major: 2, Minor: 1}
)

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether the version is at or above major.minor.
func (v Version) AtLeast(major, minor uint8) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// VertexAttrBinding describes how one vertex attribute location maps
// onto a Metal vertex buffer. UsedByShader is set during compilation
// when the shader consumes the location.
type VertexAttrBinding struct {
	Location    uint32
	MSLBuffer   uint32
	MSLOffset   uint32
	MSLStride   uint32
	PerInstance bool

	UsedByShader bool
}

// ResourceBinding maps a Vulkan (stage, set, binding) triple onto
// Metal buffer/texture/sampler indices. UsedByShader is set during
// compilation when a matching resource is bound.
type ResourceBinding struct {
	Stage         spirv.ExecutionModel
	DescriptorSet uint32
	Binding       uint32
	MSLBuffer     uint32
	MSLTexture    uint32
	MSLSampler    uint32

	UsedByShader bool
}

// Reserved descriptor set and binding used for push constants.
const (
	PushConstDescSet = 0xFFFFFFFF
	PushConstBinding = 0xFFFFFFFF
)

// VertexOptions configures vertex-stage output fixups.
type VertexOptions struct {
	// FixupClipspace rescales gl_Position.z from [-w, w] to [0, w].
	FixupClipspace bool

	// FlipVertY inverts gl_Position.y for Metal's flipped framebuffer.
	FlipVertY bool
}

// Options configures MSL code generation.
type Options struct {
	// LangVersion is the target MSL version.
	// Defaults to Version1_2 if zero.
	LangVersion Version

	// IsIOS targets the iOS flavor of Metal.
	IsIOS bool

	// ResolveSpecializedArrayLengths clears the specialization flag of
	// constants used as array lengths, since Metal disallows dynamic
	// array lengths.
	ResolveSpecializedArrayLengths bool

	// EnablePointSizeBuiltin emits the [[point_size]] qualifier.
	// Metal rejects the qualifier when the pipeline topology is not a
	// point topology, so it is gated here.
	EnablePointSizeBuiltin bool

	Vertex VertexOptions
}

// DefaultOptions returns sensible default options for MSL generation.
func DefaultOptions() Options {
	return Options{
		LangVersion:                    Version1_2,
		ResolveSpecializedArrayLengths: true,
		EnablePointSizeBuiltin:         true,
	}
}

// Compile generates MSL source code from a parsed module.
func Compile(module *spirv.Module, options Options) (string, error) {
	return NewCompiler(module, options).Compile()
}

// CompileWithTables generates MSL source with vertex-attribute and
// resource-binding tables. The tables' UsedByShader fields are
// populated as a side effect.
func CompileWithTables(module *spirv.Module, options Options,
	attrs []*VertexAttrBinding, bindings []*ResourceBinding) (string, error) {
	c := NewCompiler(module, options)
	c.SetVertexAttrs(attrs)
	c.SetResourceBindings(bindings)
	return c.Compile()
}
