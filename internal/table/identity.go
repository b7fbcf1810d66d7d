package table

// IDField is the record field used as identity when no RowKeyer is configured.
const IDField = "id"

// Identify returns the identity of a row and whether it fell back to the
// positional index. Index identities are not stable when the data set is
// reordered or filtered.
func Identify(row *Record, index int, keyer RowKeyer) (id any, fromIndex bool) {
	if keyer != nil {
		return keyer.RowKey(row, index), false
	}
	if v, ok := row.Get(IDField); ok && !isNil(v) {
		return v, false
	}
	return index, true
}
