// Package msl implements the Metal Shading Language backend: it
// translates a parsed SPIR-V module into MSL source honoring Metal's
// semantic restrictions.
//
// # Usage
//
// To compile a SPIR-V module to MSL:
//
//	module, err := spirv.Parse(words)
//	if err != nil {
//	    return err
//	}
//
//	source, err := msl.Compile(module, msl.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//
// Vertex attribute and resource binding tables map Vulkan-style
// locations and (set, binding) pairs onto Metal buffer, texture and
// sampler slots:
//
//	attrs := []*msl.VertexAttrBinding{{Location: 1, MSLBuffer: 0, MSLStride: 64}}
//	source, err := msl.CompileWithTables(module, opts, attrs, nil)
//
// # Translation model
//
// Metal has no shader-global state, so the backend rewrites the IR
// before emission: interface variables flatten into synthesized
// stage_in and stage_out structs, Private and Workgroup globals move
// into the entry function, and any global a helper function touches
// arrives as an explicit trailing parameter. Uniform and storage
// buffer structs are packed and padded member by member so the MSL
// layout matches the SPIR-V declared offsets, using packed_T3 types
// where a 3-component vector must not round up to 16 bytes.
//
// Matrix and array vertex inputs cannot live in stage_in; they divert
// to secondary buffers indexed by vertex or instance id, described by
// the vertex attribute table.
//
// Some decisions are only discoverable mid-emission, such as the
// read/write access of a storage texture. Emission then restarts from
// scratch; CompilationOverflow is reported when three emission passes
// in total have not settled.
//
// # Address spaces
//
// SPIR-V storage classes map to MSL as:
//
//	Uniform (read-only)  -> constant
//	StorageBuffer        -> device
//	Private, Function    -> thread
//	Workgroup            -> threadgroup
package msl
