package board

// Strides between neighbouring cells under the 7-bit column packing:
// vertical, horizontal and the two diagonals. These only hold for
// Height == 7; the sentinel row is what stops horizontal and diagonal runs
// from wrapping into the next column.
var directions = [4]uint{1, 7, 6, 8}

// HasWon reports whether b holds four discs in a row in any direction.
func HasWon(b uint64) bool {
	for _, d := range directions {
		pair := b & (b >> d)
		if pair&(pair>>(2*d)) != 0 {
			return true
		}
	}
	return false
}
