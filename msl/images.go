package msl

import (
	"github.com/gogpu/spvmsl/spirv"
)

// textureOpArgs carries the operands of one image instruction after
// decoding the optional image-operands mask.
type textureOpArgs struct {
	coord  spirv.Id
	dref   spirv.Id
	bias   spirv.Id
	lod    spirv.Id
	gradX  spirv.Id
	gradY  spirv.Id
	offset spirv.Id
	comp   spirv.Id
	sample spirv.Id
}

// decodeImageOperands consumes the optional mask and trailing operand
// ids starting at index start.
func decodeImageOperands(inst *spirv.Instruction, start int, args *textureOpArgs) {
	if start >= len(inst.Words) {
		return
	}
	flags := inst.Words[start]
	idx := start + 1

	if flags&spirv.ImageOperandsBiasMask != 0 {
		args.bias = spirv.Id(inst.Words[idx])
		idx++
	}
	if flags&spirv.ImageOperandsLodMask != 0 {
		args.lod = spirv.Id(inst.Words[idx])
		idx++
	}
	if flags&spirv.ImageOperandsGradMask != 0 {
		args.gradX = spirv.Id(inst.Words[idx])
		args.gradY = spirv.Id(inst.Words[idx+1])
		idx += 2
	}
	if flags&spirv.ImageOperandsConstOffsetMask != 0 || flags&spirv.ImageOperandsOffsetMask != 0 {
		args.offset = spirv.Id(inst.Words[idx])
		idx++
	}
	if flags&spirv.ImageOperandsSampleMask != 0 {
		args.sample = spirv.Id(inst.Words[idx])
	}
}

// emitTextureOp emits a sample, fetch or gather call on a texture.
func (c *Compiler) emitTextureOp(inst *spirv.Instruction) {
	resultTypeID := inst.Id(0)
	id := inst.Id(1)
	imgID := inst.Id(2)

	var args textureOpArgs
	isFetch := false
	isGather := false
	isProj := false

	args.coord = inst.Id(3)
	optStart := 4

	switch inst.Op {
	case spirv.OpImageFetch, spirv.OpImageRead:
		isFetch = true
	case spirv.OpImageGather:
		isGather = true
		args.comp = inst.Id(4)
		optStart = 5
	case spirv.OpImageDrefGather:
		isGather = true
		args.dref = inst.Id(4)
		optStart = 5
	case spirv.OpImageSampleDrefImplicitLod, spirv.OpImageSampleDrefExplicitLod:
		args.dref = inst.Id(4)
		optStart = 5
	case spirv.OpImageSampleProjImplicitLod, spirv.OpImageSampleProjExplicitLod:
		isProj = true
	case spirv.OpImageSampleProjDrefImplicitLod, spirv.OpImageSampleProjDrefExplicitLod:
		isProj = true
		args.dref = inst.Id(4)
		optStart = 5
	}
	decodeImageOperands(inst, optStart, &args)

	imgType := c.expressionType(imgID)
	if imgType == nil {
		c.fail(ErrInvalidOpcodeArg, "image operand %d has unknown type", imgID)
	}

	forward := false
	expr := c.toFunctionName(imgID, isFetch, isGather, args.dref != 0) + "(" +
		c.toFunctionArgs(imgID, imgType, isFetch, isProj, &args, &forward) + ")"

	c.emitOp(resultTypeID, id, expr, forward)
}

// toFunctionName builds the texture method reference: read for
// fetches, gather or sample otherwise, with a _compare suffix for
// depth comparisons.
func (c *Compiler) toFunctionName(img spirv.Id, isFetch, isGather, hasDref bool) string {
	fname := c.toExpression(img) + "."
	switch {
	case isFetch:
		fname += "read"
	case isGather:
		fname += "gather"
	default:
		fname += "sample"
	}
	if hasDref {
		fname += "_compare"
	}
	return fname
}

// toFunctionArgs assembles the argument list of a texture call:
// sampler, massaged coordinates, array index, depth reference, LOD
// options, offsets, gather component and sample index.
//
//nolint:gocyclo,cyclop,funlen // Mirrors the full texture argument matrix.
func (c *Compiler) toFunctionArgs(img spirv.Id, imgType *spirv.Type, isFetch, isProj bool,
	args *textureOpArgs, forward *bool) string {

	var fargs string
	if !isFetch {
		fargs = c.toSamplerExpression(img)
	}

	fwd := c.shouldForward(args.coord)
	coordExpr := c.toEnclosedExpression(args.coord)
	coordType := c.expressionType(args.coord)
	coordIsFP := coordType != nil &&
		(coordType.Base == spirv.BaseFloat || coordType.Base == spirv.BaseDouble)
	coordSize := uint32(1)
	if coordType != nil {
		coordSize = coordType.VecSize
	}
	isCubeFetch := false

	texCoords := coordExpr
	altCoord := ""

	switch imgType.Image.Dim {
	case spirv.Dim1D:
		if coordSize > 1 {
			texCoords += ".x"
		}
		if isFetch {
			texCoords = "uint(" + roundFPTexCoords(texCoords, coordIsFP) + ")"
		}
		altCoord = ".y"

	case spirv.DimBuffer:
		if coordSize > 1 {
			texCoords += ".x"
		}
		if isFetch {
			// Metal textures are 2D.
			texCoords = "uint2(" + roundFPTexCoords(texCoords, coordIsFP) + ", 0)"
		}
		altCoord = ".y"

	case spirv.Dim2D:
		if coordSize > 2 {
			texCoords += ".xy"
		}
		if isFetch {
			texCoords = "uint2(" + roundFPTexCoords(texCoords, coordIsFP) + ")"
		}
		altCoord = ".z"

	case spirv.Dim3D:
		if coordSize > 3 {
			texCoords += ".xyz"
		}
		if isFetch {
			texCoords = "uint3(" + roundFPTexCoords(texCoords, coordIsFP) + ")"
		}
		altCoord = ".w"

	case spirv.DimCube:
		if isFetch {
			isCubeFetch = true
			texCoords += ".xy"
			texCoords = "uint2(" + roundFPTexCoords(texCoords, coordIsFP) + ")"
		} else if coordSize > 3 {
			texCoords += ".xyz"
		}
		altCoord = ".w"
	}

	// Projection divides by the alternate coordinate.
	if isProj {
		texCoords += " / " + coordExpr + altCoord
	}

	if fargs != "" {
		fargs += ", "
	}
	fargs += texCoords

	// A cube fetch names the face explicitly.
	if isCubeFetch {
		fargs += ", uint(" + roundFPTexCoords(coordExpr+".z", coordIsFP) + ")"
	}

	if imgType.Image.Arrayed {
		fargs += ", uint(" + roundFPTexCoords(coordExpr+altCoord, coordIsFP) + ")"
	}

	if args.dref != 0 {
		fwd = fwd && c.shouldForward(args.dref)
		fargs += ", " + c.toExpression(args.dref)
	}

	if args.bias != 0 {
		fwd = fwd && c.shouldForward(args.bias)
		fargs += ", bias(" + c.toExpression(args.bias) + ")"
	}

	if args.lod != 0 {
		fwd = fwd && c.shouldForward(args.lod)
		if isFetch {
			fargs += ", " + c.toExpression(args.lod)
		} else {
			fargs += ", level(" + c.toExpression(args.lod) + ")"
		}
	}

	if args.gradX != 0 || args.gradY != 0 {
		fwd = fwd && c.shouldForward(args.gradX) && c.shouldForward(args.gradY)
		var gradOpt string
		switch imgType.Image.Dim {
		case spirv.Dim2D:
			gradOpt = "2d"
		case spirv.Dim3D:
			gradOpt = "3d"
		case spirv.DimCube:
			gradOpt = "cube"
		default:
			gradOpt = "unsupported_gradient_dimension"
		}
		fargs += ", gradient" + gradOpt + "(" + c.toExpression(args.gradX) + ", " +
			c.toExpression(args.gradY) + ")"
	}

	if args.offset != 0 {
		fwd = fwd && c.shouldForward(args.offset)
		offsetExpr := c.toExpression(args.offset)
		switch imgType.Image.Dim {
		case spirv.Dim2D:
			if coordSize > 2 {
				offsetExpr += ".xy"
			}
			fargs += ", " + offsetExpr
		case spirv.Dim3D:
			if coordSize > 3 {
				offsetExpr += ".xyz"
			}
			fargs += ", " + offsetExpr
		}
	}

	if args.comp != 0 {
		fwd = fwd && c.shouldForward(args.comp)
		fargs += ", " + c.toComponentArgument(args.comp)
	}

	if args.sample != 0 {
		fargs += ", " + c.toExpression(args.sample)
	}

	*forward = fwd
	return fargs
}

// roundFPTexCoords rounds floating-point coordinates before integer
// conversion.
func roundFPTexCoords(texCoords string, coordIsFP bool) string {
	if coordIsFP {
		return "round(" + texCoords + ")"
	}
	return texCoords
}

// toComponentArgument maps a constant component index to the Metal
// component enum. Non-constant or out-of-range values abort.
func (c *Compiler) toComponentArgument(id spirv.Id) string {
	con := c.module.Constant(id)
	if con == nil {
		c.fail(ErrInvalidOpcodeArg, "id %d is not an OpConstant", id)
	}
	switch con.ScalarValue() {
	case 0:
		return "component::x"
	case 1:
		return "component::y"
	case 2:
		return "component::z"
	case 3:
		return "component::w"
	}
	c.fail(ErrInvalidOpcodeArg,
		"the value (%d) of OpConstant id %d is not a valid component index, which must be one of 0, 1, 2, or 3",
		con.ScalarValue(), id)
	return "component::x"
}

// emitImageWrite emits img.write, clearing a stale NonWritable
// decoration and forcing a recompile so the texture type gains write
// access.
func (c *Compiler) emitImageWrite(inst *spirv.Instruction) {
	m := c.module
	imgID := inst.Id(0)
	coordID := inst.Id(1)
	texelID := inst.Id(2)

	imgType := c.expressionType(imgID)
	if imgType == nil {
		c.fail(ErrInvalidOpcodeArg, "image operand %d has unknown type", imgID)
	}

	if pVar := c.maybeGetBackingVariable(imgID); pVar != nil &&
		m.HasDecoration(pVar.Self, spirv.DecorationNonWritable) {
		m.UnsetDecoration(pVar.Self, spirv.DecorationNonWritable)
		c.forceRecompile = true
	}

	var args textureOpArgs
	args.coord = coordID
	decodeImageOperands(inst, 3, &args)

	forward := false
	writeArgs := textureOpArgs{coord: coordID, lod: args.lod}
	c.statement("%s.write(%s, %s);", c.toExpression(imgID), c.toExpression(texelID),
		c.toFunctionArgs(imgID, imgType, true, false, &writeArgs, &forward))
}

// emitImageQuerySize expands size queries into per-dimension getter
// calls gathered into the result vector type. A literal zero LOD is
// omitted.
func (c *Compiler) emitImageQuerySize(inst *spirv.Instruction) {
	m := c.module
	resultTypeID := inst.Id(0)
	rsltType := m.Type(resultTypeID)
	id := inst.Id(1)
	imgID := inst.Id(2)

	imgType := c.expressionType(imgID)
	if imgType == nil || (imgType.Base != spirv.BaseImage && imgType.Base != spirv.BaseSampledImage) {
		c.fail(ErrInvalidOpcodeArg, "invalid type for OpImageQuerySize")
	}
	imgExpr := c.toExpression(imgID)

	var lod string
	if inst.Op == spirv.OpImageQuerySizeLod {
		declLod := c.toExpression(inst.Id(3))
		if declLod != "0" {
			lod = declLod
		}
	}

	expr := c.typeToGlsl(rsltType) + "("
	expr += imgExpr + ".get_width(" + lod + ")"

	dim := imgType.Image.Dim
	if dim == spirv.Dim2D || dim == spirv.DimCube || dim == spirv.Dim3D {
		expr += ", " + imgExpr + ".get_height(" + lod + ")"
	}
	if dim == spirv.Dim3D {
		expr += ", " + imgExpr + ".get_depth(" + lod + ")"
	}
	if imgType.Image.Arrayed {
		expr += ", " + imgExpr + ".get_array_size()"
	}
	expr += ")"

	c.emitOp(resultTypeID, id, expr, c.shouldForward(imgID))
}

// emitImageQueryCount expands level and sample count queries.
func (c *Compiler) emitImageQueryCount(inst *spirv.Instruction, what string) {
	resultTypeID := inst.Id(0)
	rsltType := c.module.Type(resultTypeID)
	id := inst.Id(1)
	imgID := inst.Id(2)

	expr := c.typeToGlsl(rsltType) + "(" + c.toExpression(imgID) + ".get_num_" + what + "())"
	c.emitOp(resultTypeID, id, expr, c.shouldForward(imgID))
}
