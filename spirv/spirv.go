package spirv

// MagicNumber identifies a SPIR-V binary module.
const MagicNumber = 0x07230203

// Op is a SPIR-V opcode.
type Op uint16

// Opcodes handled by the compiler. The set covers module structure,
// types, constants, memory access, arithmetic, comparisons, images,
// atomics, barriers and control flow.
const (
	OpNop             Op = 0
	OpUndef           Op = 1
	OpSource          Op = 3
	OpSourceExtension Op = 4
	OpName            Op = 5
	OpMemberName      Op = 6
	OpString          Op = 7
	OpLine            Op = 8
	OpExtension       Op = 10
	OpExtInstImport   Op = 11
	OpExtInst         Op = 12
	OpMemoryModel     Op = 14
	OpEntryPoint      Op = 15
	OpExecutionMode   Op = 16
	OpCapability      Op = 17

	OpTypeVoid         Op = 19
	OpTypeBool         Op = 20
	OpTypeInt          Op = 21
	OpTypeFloat        Op = 22
	OpTypeVector       Op = 23
	OpTypeMatrix       Op = 24
	OpTypeImage        Op = 25
	OpTypeSampler      Op = 26
	OpTypeSampledImage Op = 27
	OpTypeArray        Op = 28
	OpTypeRuntimeArray Op = 29
	OpTypeStruct       Op = 30
	OpTypeOpaque       Op = 31
	OpTypePointer      Op = 32
	OpTypeFunction     Op = 33

	OpConstantTrue          Op = 41
	OpConstantFalse         Op = 42
	OpConstant              Op = 43
	OpConstantComposite     Op = 44
	OpConstantNull          Op = 46
	OpSpecConstantTrue      Op = 48
	OpSpecConstantFalse     Op = 49
	OpSpecConstant          Op = 50
	OpSpecConstantComposite Op = 51
	OpSpecConstantOp        Op = 52

	OpFunction          Op = 54
	OpFunctionParameter Op = 55
	OpFunctionEnd       Op = 56
	OpFunctionCall      Op = 57

	OpVariable            Op = 59
	OpImageTexelPointer   Op = 60
	OpLoad                Op = 61
	OpStore               Op = 62
	OpCopyMemory          Op = 63
	OpCopyMemorySized     Op = 64
	OpAccessChain         Op = 65
	OpInBoundsAccessChain Op = 66

	OpDecorate       Op = 71
	OpMemberDecorate Op = 72

	OpVectorShuffle      Op = 79
	OpCompositeConstruct Op = 80
	OpCompositeExtract   Op = 81
	OpCompositeInsert    Op = 82
	OpCopyObject         Op = 83
	OpTranspose          Op = 84

	OpSampledImage                   Op = 86
	OpImageSampleImplicitLod         Op = 87
	OpImageSampleExplicitLod         Op = 88
	OpImageSampleDrefImplicitLod     Op = 89
	OpImageSampleDrefExplicitLod     Op = 90
	OpImageSampleProjImplicitLod     Op = 91
	OpImageSampleProjExplicitLod     Op = 92
	OpImageSampleProjDrefImplicitLod Op = 93
	OpImageSampleProjDrefExplicitLod Op = 94
	OpImageFetch                     Op = 95
	OpImageGather                    Op = 96
	OpImageDrefGather                Op = 97
	OpImageRead                      Op = 98
	OpImageWrite                     Op = 99
	OpImage                          Op = 100
	OpImageQuerySizeLod              Op = 103
	OpImageQuerySize                 Op = 104
	OpImageQueryLod                  Op = 105
	OpImageQueryLevels               Op = 106
	OpImageQuerySamples              Op = 107

	OpConvertFToU   Op = 109
	OpConvertFToS   Op = 110
	OpConvertSToF   Op = 111
	OpConvertUToF   Op = 112
	OpUConvert      Op = 113
	OpSConvert      Op = 114
	OpFConvert      Op = 115
	OpQuantizeToF16 Op = 116
	OpBitcast       Op = 124

	OpSNegate           Op = 126
	OpFNegate           Op = 127
	OpIAdd              Op = 128
	OpFAdd              Op = 129
	OpISub              Op = 130
	OpFSub              Op = 131
	OpIMul              Op = 132
	OpFMul              Op = 133
	OpUDiv              Op = 134
	OpSDiv              Op = 135
	OpFDiv              Op = 136
	OpUMod              Op = 137
	OpSRem              Op = 138
	OpSMod              Op = 139
	OpFRem              Op = 140
	OpFMod              Op = 141
	OpVectorTimesScalar Op = 142
	OpMatrixTimesScalar Op = 143
	OpVectorTimesMatrix Op = 144
	OpMatrixTimesVector Op = 145
	OpMatrixTimesMatrix Op = 146
	OpOuterProduct      Op = 147
	OpDot               Op = 148

	OpAny   Op = 154
	OpAll   Op = 155
	OpIsNan Op = 156
	OpIsInf Op = 157

	OpLogicalEqual    Op = 164
	OpLogicalNotEqual Op = 165
	OpLogicalOr       Op = 166
	OpLogicalAnd      Op = 167
	OpLogicalNot      Op = 168
	OpSelect          Op = 169

	OpIEqual                 Op = 170
	OpINotEqual              Op = 171
	OpUGreaterThan           Op = 172
	OpSGreaterThan           Op = 173
	OpUGreaterThanEqual      Op = 174
	OpSGreaterThanEqual      Op = 175
	OpULessThan              Op = 176
	OpSLessThan              Op = 177
	OpULessThanEqual         Op = 178
	OpSLessThanEqual         Op = 179
	OpFOrdEqual              Op = 180
	OpFUnordEqual            Op = 181
	OpFOrdNotEqual           Op = 182
	OpFUnordNotEqual         Op = 183
	OpFOrdLessThan           Op = 184
	OpFUnordLessThan         Op = 185
	OpFOrdGreaterThan        Op = 186
	OpFUnordGreaterThan      Op = 187
	OpFOrdLessThanEqual      Op = 188
	OpFUnordLessThanEqual    Op = 189
	OpFOrdGreaterThanEqual   Op = 190
	OpFUnordGreaterThanEqual Op = 191

	OpShiftRightLogical    Op = 194
	OpShiftRightArithmetic Op = 195
	OpShiftLeftLogical     Op = 196
	OpBitwiseOr            Op = 197
	OpBitwiseXor           Op = 198
	OpBitwiseAnd           Op = 199
	OpNot                  Op = 200
	OpBitFieldInsert       Op = 201
	OpBitFieldSExtract     Op = 202
	OpBitFieldUExtract     Op = 203
	OpBitReverse           Op = 204
	OpBitCount             Op = 205

	OpDPdx         Op = 207
	OpDPdy         Op = 208
	OpFwidth       Op = 209
	OpDPdxFine     Op = 210
	OpDPdyFine     Op = 211
	OpFwidthFine   Op = 212
	OpDPdxCoarse   Op = 213
	OpDPdyCoarse   Op = 214
	OpFwidthCoarse Op = 215

	OpControlBarrier Op = 224
	OpMemoryBarrier  Op = 225

	OpAtomicLoad                Op = 227
	OpAtomicStore               Op = 228
	OpAtomicExchange            Op = 229
	OpAtomicCompareExchange     Op = 230
	OpAtomicCompareExchangeWeak Op = 231
	OpAtomicIIncrement          Op = 232
	OpAtomicIDecrement          Op = 233
	OpAtomicIAdd                Op = 234
	OpAtomicISub                Op = 235
	OpAtomicSMin                Op = 236
	OpAtomicUMin                Op = 237
	OpAtomicSMax                Op = 238
	OpAtomicUMax                Op = 239
	OpAtomicAnd                 Op = 240
	OpAtomicOr                  Op = 241
	OpAtomicXor                 Op = 242

	OpPhi               Op = 245
	OpLoopMerge         Op = 246
	OpSelectionMerge    Op = 247
	OpLabel             Op = 248
	OpBranch            Op = 249
	OpBranchConditional Op = 250
	OpSwitch            Op = 251
	OpKill              Op = 252
	OpReturn            Op = 253
	OpReturnValue       Op = 254
	OpUnreachable       Op = 255
)

// StorageClass is a SPIR-V storage class.
type StorageClass uint32

const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassCrossWorkgroup  StorageClass = 5
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassGeneric         StorageClass = 8
	StorageClassPushConstant    StorageClass = 9
	StorageClassAtomicCounter   StorageClass = 10
	StorageClassImage           StorageClass = 11
	StorageClassStorageBuffer   StorageClass = 12

	// StorageClassNone marks a type that carries no storage.
	StorageClassNone StorageClass = 0xFFFFFFFF
)

// Decoration is a SPIR-V decoration.
type Decoration uint32

const (
	DecorationRelaxedPrecision Decoration = 0
	DecorationSpecID           Decoration = 1
	DecorationBlock            Decoration = 2
	DecorationBufferBlock      Decoration = 3
	DecorationRowMajor         Decoration = 4
	DecorationColMajor         Decoration = 5
	DecorationArrayStride      Decoration = 6
	DecorationMatrixStride     Decoration = 7
	DecorationCPacked          Decoration = 10
	DecorationBuiltIn          Decoration = 11
	DecorationNoPerspective    Decoration = 13
	DecorationFlat             Decoration = 14
	DecorationNonWritable      Decoration = 24
	DecorationNonReadable      Decoration = 25
	DecorationLocation         Decoration = 30
	DecorationComponent        Decoration = 31
	DecorationIndex            Decoration = 32
	DecorationBinding          Decoration = 33
	DecorationDescriptorSet    Decoration = 34
	DecorationOffset           Decoration = 35
)

// BuiltIn is a SPIR-V built-in variable kind.
type BuiltIn uint32

const (
	BuiltInPosition             BuiltIn = 0
	BuiltInPointSize            BuiltIn = 1
	BuiltInClipDistance         BuiltIn = 3
	BuiltInCullDistance         BuiltIn = 4
	BuiltInVertexID             BuiltIn = 5
	BuiltInInstanceID           BuiltIn = 6
	BuiltInPrimitiveID          BuiltIn = 7
	BuiltInLayer                BuiltIn = 9
	BuiltInFragCoord            BuiltIn = 15
	BuiltInPointCoord           BuiltIn = 16
	BuiltInFrontFacing          BuiltIn = 17
	BuiltInSampleID             BuiltIn = 18
	BuiltInSampleMask           BuiltIn = 20
	BuiltInFragDepth            BuiltIn = 22
	BuiltInNumWorkgroups        BuiltIn = 24
	BuiltInWorkgroupSize        BuiltIn = 25
	BuiltInWorkgroupID          BuiltIn = 26
	BuiltInLocalInvocationID    BuiltIn = 27
	BuiltInGlobalInvocationID   BuiltIn = 28
	BuiltInLocalInvocationIndex BuiltIn = 29
	BuiltInVertexIndex          BuiltIn = 42
	BuiltInInstanceIndex        BuiltIn = 43

	// BuiltInNone marks the absence of a built-in decoration.
	BuiltInNone BuiltIn = 0xFFFFFFFF
)

// ExecutionModel selects the pipeline stage of an entry point.
type ExecutionModel uint32

const (
	ExecutionModelVertex    ExecutionModel = 0
	ExecutionModelFragment  ExecutionModel = 4
	ExecutionModelGLCompute ExecutionModel = 5
	ExecutionModelKernel    ExecutionModel = 6
)

// ExecutionMode is a per-entry-point execution mode.
type ExecutionMode uint32

const (
	ExecutionModeEarlyFragmentTests ExecutionMode = 9
	ExecutionModeDepthReplacing     ExecutionMode = 12
	ExecutionModeDepthGreater       ExecutionMode = 14
	ExecutionModeDepthLess          ExecutionMode = 15
	ExecutionModeLocalSize          ExecutionMode = 17
)

// Dim is an image dimensionality.
type Dim uint32

const (
	Dim1D          Dim = 0
	Dim2D          Dim = 1
	Dim3D          Dim = 2
	DimCube        Dim = 3
	DimRect        Dim = 4
	DimBuffer      Dim = 5
	DimSubpassData Dim = 6
)

// AccessQualifier is an image access qualifier.
type AccessQualifier uint32

const (
	AccessQualifierReadOnly  AccessQualifier = 0
	AccessQualifierWriteOnly AccessQualifier = 1
	AccessQualifierReadWrite AccessQualifier = 2

	// AccessQualifierNone marks an image whose access is inferred from use.
	AccessQualifierNone AccessQualifier = 0xFFFFFFFF
)

// Memory semantics bit masks.
const (
	MemorySemanticsMaskNone                 uint32 = 0
	MemorySemanticsAcquireMask              uint32 = 0x2
	MemorySemanticsReleaseMask              uint32 = 0x4
	MemorySemanticsUniformMemoryMask        uint32 = 0x40
	MemorySemanticsSubgroupMemoryMask       uint32 = 0x80
	MemorySemanticsWorkgroupMemoryMask      uint32 = 0x100
	MemorySemanticsCrossWorkgroupMemoryMask uint32 = 0x200
	MemorySemanticsAtomicCounterMemoryMask  uint32 = 0x400
	MemorySemanticsImageMemoryMask          uint32 = 0x800
)

// Scope identifiers for barriers and atomics.
const (
	ScopeCrossDevice uint32 = 0
	ScopeDevice      uint32 = 1
	ScopeWorkgroup   uint32 = 2
	ScopeSubgroup    uint32 = 3
	ScopeInvocation  uint32 = 4
)

// Image operand bit masks.
const (
	ImageOperandsBiasMask         uint32 = 0x1
	ImageOperandsLodMask          uint32 = 0x2
	ImageOperandsGradMask         uint32 = 0x4
	ImageOperandsConstOffsetMask  uint32 = 0x8
	ImageOperandsOffsetMask       uint32 = 0x10
	ImageOperandsConstOffsetsMask uint32 = 0x20
	ImageOperandsSampleMask       uint32 = 0x40
	ImageOperandsMinLodMask       uint32 = 0x80
)

// GLSLstd450 is an extended opcode from the GLSL.std.450 instruction set.
type GLSLstd450 uint32

const (
	GLSLstd450Round            GLSLstd450 = 1
	GLSLstd450RoundEven        GLSLstd450 = 2
	GLSLstd450Trunc            GLSLstd450 = 3
	GLSLstd450FAbs             GLSLstd450 = 4
	GLSLstd450SAbs             GLSLstd450 = 5
	GLSLstd450FSign            GLSLstd450 = 6
	GLSLstd450SSign            GLSLstd450 = 7
	GLSLstd450Floor            GLSLstd450 = 8
	GLSLstd450Ceil             GLSLstd450 = 9
	GLSLstd450Fract            GLSLstd450 = 10
	GLSLstd450Radians          GLSLstd450 = 11
	GLSLstd450Degrees          GLSLstd450 = 12
	GLSLstd450Sin              GLSLstd450 = 13
	GLSLstd450Cos              GLSLstd450 = 14
	GLSLstd450Tan              GLSLstd450 = 15
	GLSLstd450Asin             GLSLstd450 = 16
	GLSLstd450Acos             GLSLstd450 = 17
	GLSLstd450Atan             GLSLstd450 = 18
	GLSLstd450Sinh             GLSLstd450 = 19
	GLSLstd450Cosh             GLSLstd450 = 20
	GLSLstd450Tanh             GLSLstd450 = 21
	GLSLstd450Asinh            GLSLstd450 = 22
	GLSLstd450Acosh            GLSLstd450 = 23
	GLSLstd450Atanh            GLSLstd450 = 24
	GLSLstd450Atan2            GLSLstd450 = 25
	GLSLstd450Pow              GLSLstd450 = 26
	GLSLstd450Exp              GLSLstd450 = 27
	GLSLstd450Log              GLSLstd450 = 28
	GLSLstd450Exp2             GLSLstd450 = 29
	GLSLstd450Log2             GLSLstd450 = 30
	GLSLstd450Sqrt             GLSLstd450 = 31
	GLSLstd450InverseSqrt      GLSLstd450 = 32
	GLSLstd450Determinant      GLSLstd450 = 33
	GLSLstd450MatrixInverse    GLSLstd450 = 34
	GLSLstd450FMin             GLSLstd450 = 37
	GLSLstd450UMin             GLSLstd450 = 38
	GLSLstd450SMin             GLSLstd450 = 39
	GLSLstd450FMax             GLSLstd450 = 40
	GLSLstd450UMax             GLSLstd450 = 41
	GLSLstd450SMax             GLSLstd450 = 42
	GLSLstd450FClamp           GLSLstd450 = 43
	GLSLstd450UClamp           GLSLstd450 = 44
	GLSLstd450SClamp           GLSLstd450 = 45
	GLSLstd450FMix             GLSLstd450 = 46
	GLSLstd450Step             GLSLstd450 = 48
	GLSLstd450SmoothStep       GLSLstd450 = 49
	GLSLstd450Fma              GLSLstd450 = 50
	GLSLstd450PackSnorm4x8     GLSLstd450 = 54
	GLSLstd450PackUnorm4x8     GLSLstd450 = 55
	GLSLstd450PackSnorm2x16    GLSLstd450 = 56
	GLSLstd450PackUnorm2x16    GLSLstd450 = 57
	GLSLstd450PackHalf2x16     GLSLstd450 = 58
	GLSLstd450PackDouble2x32   GLSLstd450 = 59
	GLSLstd450UnpackSnorm2x16  GLSLstd450 = 60
	GLSLstd450UnpackUnorm2x16  GLSLstd450 = 61
	GLSLstd450UnpackHalf2x16   GLSLstd450 = 62
	GLSLstd450UnpackSnorm4x8   GLSLstd450 = 63
	GLSLstd450UnpackUnorm4x8   GLSLstd450 = 64
	GLSLstd450UnpackDouble2x32 GLSLstd450 = 65
	GLSLstd450Length           GLSLstd450 = 66
	GLSLstd450Distance         GLSLstd450 = 67
	GLSLstd450Cross            GLSLstd450 = 68
	GLSLstd450Normalize        GLSLstd450 = 69
	GLSLstd450FaceForward      GLSLstd450 = 70
	GLSLstd450Reflect          GLSLstd450 = 71
	GLSLstd450Refract          GLSLstd450 = 72
	GLSLstd450FindILsb         GLSLstd450 = 73
	GLSLstd450FindSMsb         GLSLstd450 = 74
	GLSLstd450FindUMsb         GLSLstd450 = 75
)
