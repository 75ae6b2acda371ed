package msl

import "github.com/gogpu/spvmsl/spirv"

// alignStruct sorts the members of a CPacked struct by SPIR-V offset,
// then packs and pads members so the emitted MSL layout matches the
// declared offsets. Packing runs first: packing a member shrinks both
// its size and its natural alignment, which can in turn demand a
// padding member ahead of it.
func (c *Compiler) alignStruct(ibType *spirv.Type) {
	m := c.module
	ibTypeID := ibType.Self

	// Members should already be sorted by offset per the SPIR-V spec,
	// but make sure.
	c.sortStructMembers(ibType, sortAspectOffset)

	mbrCnt := len(ibType.MemberTypes)

	// If a member sits closer to its predecessor than default spacing
	// allows, the predecessor must be packed. This applies to any
	// 3-element vector followed within its rounded-up footprint.
	currOffset := uint32(0)
	for mbrIdx := 0; mbrIdx < mbrCnt; mbrIdx++ {
		alignMask := uint32(c.declaredStructMemberAlignment(ibType, mbrIdx)) - 1
		currOffset = (currOffset + alignMask) &^ alignMask

		mbrOffset := m.MemberDecoration(ibTypeID, mbrIdx, spirv.DecorationOffset)
		if currOffset > mbrOffset && mbrIdx > 0 {
			if c.isMemberPackable(ibType, mbrIdx-1) {
				m.SetMemberDecoration(ibTypeID, mbrIdx-1, spirv.DecorationCPacked)
			}
		}

		currOffset = mbrOffset + uint32(c.declaredStructMemberSize(ibType, mbrIdx))
	}

	// If a member sits farther than its alignment past the end of its
	// predecessor, record an inert padding member to emit before it.
	currOffset = 0
	for mbrIdx := 0; mbrIdx < mbrCnt; mbrIdx++ {
		alignMask := uint32(c.declaredStructMemberAlignment(ibType, mbrIdx)) - 1
		currOffset = (currOffset + alignMask) &^ alignMask

		mbrOffset := m.MemberDecoration(ibTypeID, mbrIdx, spirv.DecorationOffset)
		if mbrOffset > currOffset {
			c.structMemberPadding[memberKey{ibTypeID, mbrIdx}] = mbrOffset - currOffset
		}

		currOffset = mbrOffset + uint32(c.declaredStructMemberSize(ibType, mbrIdx))
	}
}

// isMemberPackable reports whether the member has a packed type
// variation smaller than its unpacked form: any 3-element single
// column vector.
func (c *Compiler) isMemberPackable(ibType *spirv.Type, index int) bool {
	mbrType := c.module.Type(ibType.MemberTypes[index])
	return mbrType != nil && mbrType.VecSize == 3 && mbrType.Columns == 1
}

// memberIsPackedType reports whether the member was marked CPacked by
// the packing pass.
func (c *Compiler) memberIsPackedType(typ *spirv.Type, index int) bool {
	return c.module.HasMemberDecoration(typ.Self, index, spirv.DecorationCPacked)
}

// declaredStructMemberSize returns the byte size a member occupies in
// the emitted struct. Unpacked 3-vectors round up to 4 components;
// 3-column row-major and 3-row column-major matrices round the
// corresponding dimension.
func (c *Compiler) declaredStructMemberSize(structType *spirv.Type, index int) uint32 {
	m := c.module
	typ := m.Type(structType.MemberTypes[index])
	if typ == nil {
		c.internalError("member %d of struct %d has unknown type", index, structType.Self)
	}

	switch typ.Base {
	case spirv.BaseUnknown, spirv.BaseVoid, spirv.BaseAtomicCounter,
		spirv.BaseImage, spirv.BaseSampledImage, spirv.BaseSampler:
		c.fail(ErrQueryOpaqueLayout, "querying size of opaque object")
	}

	// Arrays carry an explicit stride; runtime arrays size as one
	// element.
	if typ.IsArray() {
		stride := m.MemberDecoration(structType.Self, index, spirv.DecorationArrayStride)
		if stride == 0 {
			stride = m.Decoration(typ.Self, spirv.DecorationArrayStride)
		}
		n := typ.Array[len(typ.Array)-1]
		if n < 1 {
			n = 1
		}
		return stride * n
	}

	if typ.Base == spirv.BaseStruct {
		return c.declaredStructSize(typ)
	}

	componentSize := typ.Width / 8
	vecsize := typ.VecSize
	columns := typ.Columns

	if columns == 1 {
		if !c.memberIsPackedType(structType, index) && vecsize == 3 {
			vecsize = 4
		}
	} else {
		switch {
		case m.HasMemberDecoration(structType.Self, index, spirv.DecorationColMajor):
			if vecsize == 3 {
				vecsize = 4
			}
		case m.HasMemberDecoration(structType.Self, index, spirv.DecorationRowMajor):
			if columns == 3 {
				columns = 4
			}
		}
	}

	return vecsize * columns * componentSize
}

// declaredStructSize returns the byte size of a whole struct: the end
// of its last member, aligned up to 16.
func (c *Compiler) declaredStructSize(typ *spirv.Type) uint32 {
	var size uint32
	for i := range typ.MemberTypes {
		end := c.module.MemberDecoration(typ.Self, i, spirv.DecorationOffset) +
			c.declaredStructMemberSize(typ, i)
		if end > size {
			size = end
		}
	}
	return (size + 15) &^ 15
}

// declaredStructMemberAlignment returns the byte alignment of a
// member. Struct members of host-visible structs align to 16; packed
// types align to their component size; everything else aligns to its
// size divided by column and array counts.
func (c *Compiler) declaredStructMemberAlignment(structType *spirv.Type, index int) uint32 {
	typ := c.module.Type(structType.MemberTypes[index])
	if typ == nil {
		c.internalError("member %d of struct %d has unknown type", index, structType.Self)
	}

	switch typ.Base {
	case spirv.BaseUnknown, spirv.BaseVoid, spirv.BaseAtomicCounter,
		spirv.BaseImage, spirv.BaseSampledImage, spirv.BaseSampler:
		c.fail(ErrQueryOpaqueLayout, "querying alignment of opaque object")

	case spirv.BaseStruct:
		return 16
	}

	if c.memberIsPackedType(structType, index) {
		return typ.Width / 8
	}

	arraySize := uint32(1)
	if typ.IsArray() {
		arraySize = typ.Array[len(typ.Array)-1]
		if arraySize < 1 {
			arraySize = 1
		}
	}
	return c.declaredStructMemberSize(structType, index) / (typ.Columns * arraySize)
}
