package interpreter

import (
	"math"

	"github.com/radeon-go/amdil/ir"
)

// Lanes holds the raw bits of every lane of a value. Scalars use lane 0. Integer lanes are kept zero extended to
// 64 bits and floats are kept as their IEEE-754 bits.
type Lanes [4]uint64

// I returns integer lanes.
func I(bits ...uint64) Lanes {
	var l Lanes
	copy(l[:], bits)
	return l
}

// F32 returns f32 lanes.
func F32(vals ...float32) Lanes {
	var l Lanes
	for i, v := range vals {
		l[i] = uint64(math.Float32bits(v))
	}
	return l
}

// F64 returns f64 lanes.
func F64(vals ...float64) Lanes {
	var l Lanes
	for i, v := range vals {
		l[i] = math.Float64bits(v)
	}
	return l
}

// Float32 returns lane i as a float32.
func (l Lanes) Float32(i int) float32 {
	return math.Float32frombits(uint32(l[i]))
}

// Float64 returns lane i as a float64.
func (l Lanes) Float64(i int) float64 {
	return math.Float64frombits(l[i])
}

// Mask clears the bits above the lane width of typ and the lanes typ does not have.
func (l Lanes) Mask(typ ir.Type) Lanes {
	var ret Lanes
	for i := 0; i < typ.Lanes(); i++ {
		ret[i] = truncBits(l[i], typ.Bits())
	}
	return ret
}

func truncBits(x uint64, bits int) uint64 {
	if bits >= 64 || bits == 0 {
		return x
	}
	return x & (1<<bits - 1)
}

func signExtend(x uint64, bits int) int64 {
	if bits >= 64 || bits == 0 {
		return int64(x)
	}
	shift := 64 - bits
	return int64(x<<shift) >> shift
}

func broadcast(x uint64, n int) Lanes {
	var l Lanes
	for i := 0; i < n; i++ {
		l[i] = x
	}
	return l
}

func allOnes(bits int) uint64 {
	return truncBits(math.MaxUint64, bits)
}

// packBits concatenates the lanes of typ into a little endian bit string of at most 256 bits.
func packBits(l Lanes, typ ir.Type) [4]uint64 {
	var out [4]uint64
	w := typ.Bits()
	for i := 0; i < typ.Lanes(); i++ {
		bit := i * w
		v := truncBits(l[i], w)
		out[bit/64] |= v << (bit % 64)
		if rem := bit%64 + w; rem > 64 {
			out[bit/64+1] |= v >> (64 - bit%64)
		}
	}
	return out
}

func unpackBits(bits [4]uint64, typ ir.Type) Lanes {
	var l Lanes
	w := typ.Bits()
	for i := 0; i < typ.Lanes(); i++ {
		bit := i * w
		v := bits[bit/64] >> (bit % 64)
		if rem := bit%64 + w; rem > 64 {
			v |= bits[bit/64+1] << (64 - bit%64)
		}
		l[i] = truncBits(v, w)
	}
	return l
}
