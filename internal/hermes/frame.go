package hermes

import (
	"encoding/binary"
	"fmt"
)

const (
	// Registers is the number of C0 addressed slots in the control image.
	Registers = 17
	// FrameSize is the size of the control image.
	FrameSize = Registers * 4
)

// ControlFrame is the register image sent to the hardware. Registers are
// numbered 0 to 16 and bytes within a register 1 to 4 (C1..C4).
type ControlFrame [FrameSize]byte

// NewControlFrame returns the power-on image: one receiver with duplex on
// and every frequency register at 7012352 Hz.
func NewControlFrame() ControlFrame {
	var f ControlFrame
	f[3] = 0x04
	for reg := 1; reg <= 8; reg++ {
		f[offset(reg, 2)] = 0x6B
	}
	return f
}

func offset(reg, b int) int {
	if reg < 0 || reg >= Registers || b < 1 || b > 4 {
		panic(fmt.Sprintf("hermes: control address %d/%d out of range", reg, b))
	}
	return reg*4 + b - 1
}

// Byte returns byte b (1-4) of register reg.
func (f *ControlFrame) Byte(reg, b int) byte { return f[offset(reg, b)] }

// SetByte stores v at byte b (1-4) of register reg.
func (f *ControlFrame) SetByte(reg, b int, v byte) { f[offset(reg, b)] = v }

// Uint32 reads register reg as a big-endian word.
func (f *ControlFrame) Uint32(reg int) uint32 {
	return binary.BigEndian.Uint32(f[offset(reg, 1):])
}

// SetUint32 writes v into register reg, most significant byte in C1.
func (f *ControlFrame) SetUint32(reg int, v uint32) {
	binary.BigEndian.PutUint32(f[offset(reg, 1):], v)
}

func (f *ControlFrame) setBits(reg, b int, mask byte, on bool) {
	i := offset(reg, b)
	if on {
		f[i] |= mask
	} else {
		f[i] &^= mask
	}
}
