package pixel

// MaskMethod selects which channel of a mask surface gates composition.
type MaskMethod uint8

// Mask methods. Luma is the luminance of the straight color, so a
// half-transparent white mask passes everything.
const (
	AlphaMask MaskMethod = iota
	InvAlphaMask
	LumaMask
	InvLumaMask

	matteCount
)

var maskNames = [...]string{"Alpha", "InvAlpha", "Luma", "InvLuma"}

// String returns the method name.
func (m MaskMethod) String() string {
	if m < matteCount {
		return maskNames[m]
	}
	return "MaskMethod(?)"
}

// MaskOp combines the alpha s of a mask with the alpha d of the mask it
// is nested in.
type MaskOp uint8

// Mask compose operations.
const (
	// MaskIntersect keeps what both masks pass.
	MaskIntersect MaskOp = iota
	// MaskAdd passes what either mask passes.
	MaskAdd
	// MaskSubtract removes s from d.
	MaskSubtract
	// MaskDifference passes what exactly one mask passes.
	MaskDifference

	maskOpCount
)

var maskOpNames = [...]string{"Intersect", "Add", "Subtract", "Difference"}

// String returns the operation name.
func (op MaskOp) String() string {
	if op < maskOpCount {
		return maskOpNames[op]
	}
	return "MaskOp(?)"
}

// Compose returns the combined mask alpha. Unknown operations intersect.
func (op MaskOp) Compose(s, d uint8) uint8 {
	switch op {
	case MaskAdd:
		return s + Mul(d, 255-s)
	case MaskSubtract:
		return Mul(d, 255-s)
	case MaskDifference:
		return uint8(min(uint32(Mul(s, 255-d))+uint32(Mul(d, 255-s)), 255))
	default:
		return Mul(s, d)
	}
}
