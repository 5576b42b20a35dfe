package board

import "math/bits"

// Board geometry. Every column owns Height+1 consecutive bits: Rows playable
// cells followed by one sentinel bit that only becomes set when the column
// overflows.
//
//	 6 13 20 27 34 41 48   <- sentinels
//	 5 12 19 26 33 40 47
//	 4 11 18 25 32 39 46
//	 3 10 17 24 31 38 45
//	 2  9 16 23 30 37 44
//	 1  8 15 22 29 36 43
//	 0  7 14 21 28 35 42
const (
	Columns = 7
	Rows    = 6
	Height  = Rows + 1 // bits per column
	Cells   = Columns * Rows
)

// OverflowMask is the union of the sentinel bit of every column
// (2^6 + 2^13 + 2^20 + 2^27 + 2^34 + 2^41 + 2^48).
const OverflowMask uint64 = 283691315109952

// ColumnPointers holds the next free bit index of every column.
type ColumnPointers [Columns]uint64

// InitialPointers returns the write cursor every new game starts with: the
// base bit of each column.
func InitialPointers() ColumnPointers {
	var p ColumnPointers
	for c := range p {
		p[c] = Base(c)
	}
	return p
}

// Base is the bit index of the bottom cell of column c.
func Base(c int) uint64 { return uint64(Height * c) }

// Sentinel is the bit index of the overflow bit of column c.
func Sentinel(c int) uint64 { return Base(c) + Rows }

// Cell is the bit index of (column, row), row 0 being the bottom row.
func Cell(column, row int) uint64 { return Base(column) + uint64(row) }

// Apply sets the bit under the column's write cursor in b and advances the
// cursor. It does not check bounds or fullness: callers test
// Overflowed(*b) right after.
func Apply(b *uint64, p *ColumnPointers, column int) {
	*b |= 1 << p[column]
	p[column]++
}

// Overflowed reports whether any sentinel bit is set in b.
func Overflowed(b uint64) bool { return b&OverflowMask != 0 }

// Count returns the number of discs on b.
func Count(b uint64) int { return bits.OnesCount64(b) }

// Grid renders two player boards as rows top to bottom. 0 is empty, 1 is the
// first board's disc and 2 the second's.
func Grid(a, b uint64) [Rows][Columns]uint8 {
	var g [Rows][Columns]uint8
	for c := 0; c < Columns; c++ {
		for r := 0; r < Rows; r++ {
			bit := uint64(1) << Cell(c, r)
			switch {
			case a&bit != 0:
				g[Rows-1-r][c] = 1
			case b&bit != 0:
				g[Rows-1-r][c] = 2
			}
		}
	}
	return g
}
