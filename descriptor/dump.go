package descriptor

import (
	"fmt"
	"strings"
)

// Dump renders an encoded record as one annotated row per 8-byte slot.
func Dump[T Float](buf []byte) (string, error) {
	if err := CheckSize[T](buf); err != nil {
		return "", err
	}
	d := Decode[T](buf)

	labels := [Size / 8]string{
		fmt.Sprintf("cell_size   %v", d.CellSize),
		fmt.Sprintf("n_particle  %d", d.NParticle),
		fmt.Sprintf("stride[0]   %d", d.Stride[0]),
		fmt.Sprintf("stride[1]   %d", d.Stride[1]),
		fmt.Sprintf("stride[2]   %d", d.Stride[2]),
	}
	if isSingle[T]() {
		labels[0] += " (+4 pad)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d bytes\n", TypeName[T](), Size)
	for row := 0; row < Size/8; row++ {
		fmt.Fprintf(&b, "%04x ", row*8)
		for _, c := range buf[row*8 : row*8+8] {
			fmt.Fprintf(&b, " %02x", c)
		}
		fmt.Fprintf(&b, "  %s\n", labels[row])
	}
	return b.String(), nil
}
