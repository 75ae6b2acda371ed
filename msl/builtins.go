package msl

import "github.com/gogpu/spvmsl/spirv"

// builtinToGlsl returns the canonical GLSL-style name of a built-in.
// These names survive into the output as interface struct member and
// argument names.
func builtinToGlsl(builtin spirv.BuiltIn) string {
	switch builtin {
	case spirv.BuiltInVertexID:
		return "gl_VertexID"
	case spirv.BuiltInInstanceID:
		return "gl_InstanceID"
	case spirv.BuiltInVertexIndex:
		return "gl_VertexIndex"
	case spirv.BuiltInInstanceIndex:
		return "gl_InstanceIndex"
	case spirv.BuiltInPosition:
		return "gl_Position"
	case spirv.BuiltInPointSize:
		return "gl_PointSize"
	case spirv.BuiltInClipDistance:
		return "gl_ClipDistance"
	case spirv.BuiltInCullDistance:
		return "gl_CullDistance"
	case spirv.BuiltInLayer:
		return "gl_Layer"
	case spirv.BuiltInFragCoord:
		return "gl_FragCoord"
	case spirv.BuiltInPointCoord:
		return "gl_PointCoord"
	case spirv.BuiltInFrontFacing:
		return "gl_FrontFacing"
	case spirv.BuiltInSampleID:
		return "gl_SampleID"
	case spirv.BuiltInSampleMask:
		return "gl_SampleMask"
	case spirv.BuiltInFragDepth:
		return "gl_FragDepth"
	case spirv.BuiltInNumWorkgroups:
		return "gl_NumWorkGroups"
	case spirv.BuiltInWorkgroupSize:
		return "gl_WorkGroupSize"
	case spirv.BuiltInWorkgroupID:
		return "gl_WorkGroupID"
	case spirv.BuiltInLocalInvocationID:
		return "gl_LocalInvocationID"
	case spirv.BuiltInGlobalInvocationID:
		return "gl_GlobalInvocationID"
	case spirv.BuiltInLocalInvocationIndex:
		return "gl_LocalInvocationIndex"
	default:
		return "gl_Unknown"
	}
}

// builtinQualifier returns the MSL attribute qualifier for a built-in.
func (c *Compiler) builtinQualifier(builtin spirv.BuiltIn) string {
	switch builtin {
	// Vertex function in
	case spirv.BuiltInVertexID, spirv.BuiltInVertexIndex:
		return "vertex_id"
	case spirv.BuiltInInstanceID, spirv.BuiltInInstanceIndex:
		return "instance_id"

	// Vertex function out
	case spirv.BuiltInClipDistance:
		return "clip_distance"
	case spirv.BuiltInPointSize:
		return "point_size"
	case spirv.BuiltInPosition:
		return "position"
	case spirv.BuiltInLayer:
		return "render_target_array_index"

	// Fragment function in
	case spirv.BuiltInFrontFacing:
		return "front_facing"
	case spirv.BuiltInPointCoord:
		return "point_coord"
	case spirv.BuiltInFragCoord:
		return "position"
	case spirv.BuiltInSampleID:
		return "sample_id"
	case spirv.BuiltInSampleMask:
		return "sample_mask"

	// Fragment function out
	case spirv.BuiltInFragDepth:
		switch {
		case c.module.ExecutionModes[spirv.ExecutionModeDepthGreater]:
			return "depth(greater)"
		case c.module.ExecutionModes[spirv.ExecutionModeDepthLess]:
			return "depth(less)"
		default:
			return "depth(any)"
		}

	// Compute function in
	case spirv.BuiltInGlobalInvocationID:
		return "thread_position_in_grid"
	case spirv.BuiltInWorkgroupID:
		return "threadgroup_position_in_grid"
	case spirv.BuiltInNumWorkgroups:
		return "threadgroups_per_grid"
	case spirv.BuiltInLocalInvocationID:
		return "thread_position_in_threadgroup"
	case spirv.BuiltInLocalInvocationIndex:
		return "thread_index_in_threadgroup"

	default:
		return "unsupported-built-in"
	}
}

// builtinTypeDecl returns the MSL type of a built-in.
func builtinTypeDecl(builtin spirv.BuiltIn) string {
	switch builtin {
	case spirv.BuiltInVertexID, spirv.BuiltInVertexIndex,
		spirv.BuiltInInstanceID, spirv.BuiltInInstanceIndex:
		return "uint"
	case spirv.BuiltInClipDistance, spirv.BuiltInPointSize:
		return "float"
	case spirv.BuiltInPosition, spirv.BuiltInFragCoord:
		return "float4"
	case spirv.BuiltInLayer:
		return "uint"
	case spirv.BuiltInFrontFacing:
		return "bool"
	case spirv.BuiltInPointCoord:
		return "float2"
	case spirv.BuiltInSampleID, spirv.BuiltInSampleMask:
		return "uint"
	case spirv.BuiltInGlobalInvocationID, spirv.BuiltInLocalInvocationID,
		spirv.BuiltInNumWorkgroups, spirv.BuiltInWorkgroupID:
		return "uint3"
	case spirv.BuiltInLocalInvocationIndex:
		return "uint"
	default:
		return "unsupported-built-in-type"
	}
}

// builtInFuncArg declares a built-in as an entry function argument.
func (c *Compiler) builtInFuncArg(builtin spirv.BuiltIn, prefixComma bool) string {
	arg := ""
	if prefixComma {
		arg += ", "
	}
	arg += builtinTypeDecl(builtin) + " " + builtinToGlsl(builtin)
	arg += " [[" + c.builtinQualifier(builtin) + "]]"
	return arg
}
