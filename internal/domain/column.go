package domain

import (
	"encoding/json"
	"math/big"
)

// OutOfRangeColumn stands in for integers too large for int. The rules
// reject it as an invalid column, after their finished and turn checks.
const OutOfRangeColumn = -1

// ParseColumn reads a column number sent by a client. Any integer is
// accepted, however large; ok is false only for non-integers.
func ParseColumn(n json.Number) (column int, ok bool) {
	if v, err := n.Int64(); err == nil {
		if int64(int(v)) != v {
			return OutOfRangeColumn, true
		}
		return int(v), true
	}

	f, _, err := big.ParseFloat(n.String(), 10, 256, big.ToNearestEven)
	if err != nil || !f.IsInt() {
		return 0, false
	}
	return OutOfRangeColumn, true
}
