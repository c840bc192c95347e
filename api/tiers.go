package api

// ClzTier selects how count-leading-zeros is produced.
type ClzTier byte

const (
	// ClzTierEmulated builds CLZ from the float exponent trick over 16 or 23 bit fields.
	ClzTierEmulated ClzTier = iota
	// ClzTierNative uses the find-first-bit-high instruction.
	ClzTierNative
)

// IntToDoubleTier selects how unsigned integers are converted to doubles.
type IntToDoubleTier byte

const (
	// IntToDoubleTierManual packs mantissa and exponent by hand using CLZ.
	IntToDoubleTierManual IntToDoubleTier = iota
	// IntToDoubleTierBias places the integer under a fixed exponent pattern and subtracts the bias.
	IntToDoubleTierBias
	// IntToDoubleTierNative uses the hardware conversion.
	IntToDoubleTierNative
)

// DoubleToIntTier selects how doubles are converted to integers.
type DoubleToIntTier byte

const (
	// DoubleToIntTierManual unpacks the double bit by bit.
	DoubleToIntTierManual DoubleToIntTier = iota
	// DoubleToIntTierNative uses the hardware conversion for 32-bit results.
	DoubleToIntTierNative
)

// Mul64Tier selects how 64-bit multiplication is produced.
type Mul64Tier byte

const (
	// Mul64TierEmulated decomposes the product into 32-bit multiplies.
	Mul64TierEmulated Mul64Tier = iota
	// Mul64TierNative leaves the multiplication to the CAL compiler.
	Mul64TierNative
)

// FDivTier selects how single precision division is produced.
type FDivTier byte

const (
	// FDivTierIEEEEmulated handles the IEEE special cases in software around a reciprocal multiply.
	FDivTierIEEEEmulated FDivTier = iota
	// FDivTierScaled rescales huge divisors around the division-with-infinity instruction.
	FDivTierScaled
)

// Tiers is the set of capability tiers derived from a Device.
type Tiers struct {
	Clz         ClzTier
	IntToDouble IntToDoubleTier
	DoubleToInt DoubleToIntTier
	Mul64       Mul64Tier
	FDiv        FDivTier
}

const (
	// calBiasConversions is the first CAL compiler that folds the double bias trick correctly.
	calBiasConversions CALVersion = 135
	// calNativeMul64 is the first CAL compiler with a working 64-bit multiply.
	calNativeMul64 CALVersion = 139
)

// Tiers derives the capability tiers of this device. This is the only place where generations and CAL versions
// are compared against each other.
func (d Device) Tiers() Tiers {
	var t Tiers
	if d.Generation >= GenerationHD5XXX {
		t.Clz = ClzTierNative
	}
	switch {
	case d.Generation > GenerationHD6XXX:
		t.IntToDouble = IntToDoubleTierNative
	case d.CALVersion >= calBiasConversions:
		t.IntToDouble = IntToDoubleTierBias
	}
	if d.Generation > GenerationHD6XXX {
		t.DoubleToInt = DoubleToIntTierNative
	}
	if d.CALVersion >= calNativeMul64 && d.Generation != GenerationHD4XXX {
		t.Mul64 = Mul64TierNative
	}
	if d.Generation != GenerationHD4XXX {
		t.FDiv = FDivTierScaled
	}
	return t
}
