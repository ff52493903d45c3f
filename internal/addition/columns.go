package addition

import "fmt"

var (
	integerColumnNames    = []string{"unidades", "decenas", "centenas", "unidades de mil", "decenas de mil"}
	fractionalColumnNames = []string{"décimos", "centésimos", "milésimos", "diezmilésimos"}

	integerColumnLabels    = []string{"U", "D", "C", "UM", "DM"}
	fractionalColumnLabels = []string{"d", "c", "m", "dm"}
)

// placeIndex maps a column to its position in the integer or fractional
// place-value tables. ok is false for columns that do not exist.
func placeIndex(columnIndex, decimalPosition int) (idx int, fractional, ok bool) {
	if columnIndex < 0 || decimalPosition < 0 {
		return 0, false, false
	}
	if columnIndex < decimalPosition {
		return decimalPosition - 1 - columnIndex, true, true
	}
	return columnIndex - decimalPosition, false, true
}

// ColumnName returns the Spanish place-value name of a column, 0 being the
// rightmost. Columns past the name tables get a numbered name instead, and a
// negative column or decimal position has no name ("").
func ColumnName(columnIndex, decimalPosition int) string {
	idx, fractional, ok := placeIndex(columnIndex, decimalPosition)
	if !ok {
		return ""
	}
	if fractional {
		if idx < len(fractionalColumnNames) {
			return fractionalColumnNames[idx]
		}
		return fmt.Sprintf("decimal %d", idx+1)
	}
	if idx < len(integerColumnNames) {
		return integerColumnNames[idx]
	}
	return fmt.Sprintf("entera %d", idx+1)
}

// ColumnLabel returns the short board label (U, D, d, c, ...) of a column, or
// "" when the column has none.
func ColumnLabel(columnIndex, decimalPosition int) string {
	idx, fractional, ok := placeIndex(columnIndex, decimalPosition)
	if !ok {
		return ""
	}
	table := integerColumnLabels
	if fractional {
		table = fractionalColumnLabels
	}
	if idx < len(table) {
		return table[idx]
	}
	return ""
}
