package msl

import "github.com/gogpu/spvmsl/spirv"

// emitGlslOp routes a GLSL.std.450 extended opcode to a Metal
// intrinsic, an injected helper, or an unsupported_* stub left
// unresolved so the downstream compiler surfaces it.
//
//nolint:gocyclo,cyclop,funlen // Extended opcode dispatch covers the whole set.
func (c *Compiler) emitGlslOp(resultTypeID, id spirv.Id, op spirv.GLSLstd450, args []uint32) {
	arg := func(i int) spirv.Id { return spirv.Id(args[i]) }

	switch op {
	// MSL-specific remaps.
	case spirv.GLSLstd450Atan2:
		c.emitBinaryFuncOp(resultTypeID, id, arg(0), arg(1), "atan2")
	case spirv.GLSLstd450InverseSqrt:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "rsqrt")
	case spirv.GLSLstd450RoundEven:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "rint")

	case spirv.GLSLstd450FindILsb:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "findLSB")
	case spirv.GLSLstd450FindSMsb:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "findSMSB")
	case spirv.GLSLstd450FindUMsb:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "findUMSB")

	case spirv.GLSLstd450PackSnorm4x8:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "pack_float_to_snorm4x8")
	case spirv.GLSLstd450PackUnorm4x8:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "pack_float_to_unorm4x8")
	case spirv.GLSLstd450PackSnorm2x16:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "pack_float_to_snorm2x16")
	case spirv.GLSLstd450PackUnorm2x16:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "pack_float_to_unorm2x16")
	case spirv.GLSLstd450PackHalf2x16:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "unsupported_GLSLstd450PackHalf2x16")

	case spirv.GLSLstd450UnpackSnorm4x8:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "unpack_snorm4x8_to_float")
	case spirv.GLSLstd450UnpackUnorm4x8:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "unpack_unorm4x8_to_float")
	case spirv.GLSLstd450UnpackSnorm2x16:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "unpack_snorm2x16_to_float")
	case spirv.GLSLstd450UnpackUnorm2x16:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "unpack_unorm2x16_to_float")
	case spirv.GLSLstd450UnpackHalf2x16:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "unsupported_GLSLstd450UnpackHalf2x16")

	case spirv.GLSLstd450PackDouble2x32:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "unsupported_GLSLstd450PackDouble2x32")
	case spirv.GLSLstd450UnpackDouble2x32:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "unsupported_GLSLstd450UnpackDouble2x32")

	case spirv.GLSLstd450MatrixInverse:
		matType := c.module.Type(resultTypeID)
		if matType == nil {
			c.internalError("matrix inverse with unknown result type %d", resultTypeID)
		}
		switch matType.Columns {
		case 2:
			c.emitUnaryFuncOp(resultTypeID, id, arg(0), "spvInverse2x2")
		case 3:
			c.emitUnaryFuncOp(resultTypeID, id, arg(0), "spvInverse3x3")
		case 4:
			c.emitUnaryFuncOp(resultTypeID, id, arg(0), "spvInverse4x4")
		}

	// Common subset shared with the GLSL family.
	case spirv.GLSLstd450Round:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "round")
	case spirv.GLSLstd450Trunc:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "trunc")
	case spirv.GLSLstd450FAbs, spirv.GLSLstd450SAbs:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "abs")
	case spirv.GLSLstd450FSign, spirv.GLSLstd450SSign:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "sign")
	case spirv.GLSLstd450Floor:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "floor")
	case spirv.GLSLstd450Ceil:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "ceil")
	case spirv.GLSLstd450Fract:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "fract")
	case spirv.GLSLstd450Radians:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "radians")
	case spirv.GLSLstd450Degrees:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "degrees")
	case spirv.GLSLstd450Sin:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "sin")
	case spirv.GLSLstd450Cos:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "cos")
	case spirv.GLSLstd450Tan:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "tan")
	case spirv.GLSLstd450Asin:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "asin")
	case spirv.GLSLstd450Acos:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "acos")
	case spirv.GLSLstd450Atan:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "atan")
	case spirv.GLSLstd450Sinh:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "sinh")
	case spirv.GLSLstd450Cosh:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "cosh")
	case spirv.GLSLstd450Tanh:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "tanh")
	case spirv.GLSLstd450Asinh:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "asinh")
	case spirv.GLSLstd450Acosh:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "acosh")
	case spirv.GLSLstd450Atanh:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "atanh")
	case spirv.GLSLstd450Pow:
		c.emitBinaryFuncOp(resultTypeID, id, arg(0), arg(1), "pow")
	case spirv.GLSLstd450Exp:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "exp")
	case spirv.GLSLstd450Log:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "log")
	case spirv.GLSLstd450Exp2:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "exp2")
	case spirv.GLSLstd450Log2:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "log2")
	case spirv.GLSLstd450Sqrt:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "sqrt")
	case spirv.GLSLstd450Determinant:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "determinant")
	case spirv.GLSLstd450FMin, spirv.GLSLstd450UMin, spirv.GLSLstd450SMin:
		c.emitBinaryFuncOp(resultTypeID, id, arg(0), arg(1), "min")
	case spirv.GLSLstd450FMax, spirv.GLSLstd450UMax, spirv.GLSLstd450SMax:
		c.emitBinaryFuncOp(resultTypeID, id, arg(0), arg(1), "max")
	case spirv.GLSLstd450FClamp, spirv.GLSLstd450UClamp, spirv.GLSLstd450SClamp:
		c.emitTrinaryFuncOp(resultTypeID, id, arg(0), arg(1), arg(2), "clamp")
	case spirv.GLSLstd450FMix:
		c.emitTrinaryFuncOp(resultTypeID, id, arg(0), arg(1), arg(2), "mix")
	case spirv.GLSLstd450Step:
		c.emitBinaryFuncOp(resultTypeID, id, arg(0), arg(1), "step")
	case spirv.GLSLstd450SmoothStep:
		c.emitTrinaryFuncOp(resultTypeID, id, arg(0), arg(1), arg(2), "smoothstep")
	case spirv.GLSLstd450Fma:
		c.emitTrinaryFuncOp(resultTypeID, id, arg(0), arg(1), arg(2), "fma")
	case spirv.GLSLstd450Length:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "length")
	case spirv.GLSLstd450Distance:
		c.emitBinaryFuncOp(resultTypeID, id, arg(0), arg(1), "distance")
	case spirv.GLSLstd450Cross:
		c.emitBinaryFuncOp(resultTypeID, id, arg(0), arg(1), "cross")
	case spirv.GLSLstd450Normalize:
		c.emitUnaryFuncOp(resultTypeID, id, arg(0), "normalize")
	case spirv.GLSLstd450FaceForward:
		c.emitTrinaryFuncOp(resultTypeID, id, arg(0), arg(1), arg(2), "faceforward")
	case spirv.GLSLstd450Reflect:
		c.emitBinaryFuncOp(resultTypeID, id, arg(0), arg(1), "reflect")
	case spirv.GLSLstd450Refract:
		c.emitTrinaryFuncOp(resultTypeID, id, arg(0), arg(1), arg(2), "refract")

	default:
		c.emitOp(resultTypeID, id, "unsupported_GLSLstd450_op", false)
	}
}
