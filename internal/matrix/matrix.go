/*
Package matrix implements a sparse integer matrix used to record debug
telemetry for the Earley engine: how many times a given (bucket index,
production index) pair was visited during a parse. It is only populated
when a grammar's ShowDebuggingOutput option is set and never affects
parse results.

This implementation uses the COO algorithm (a.k.a. triplet-encoding), a
direct adaptation of a sparse parser-table type originally used to back
LR GOTO/ACTION tables — repurposed here for a single occupancy counter
per cell instead of a pair of table-action values.

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package matrix

// IntMatrix is a sparse matrix of int counters, addressed (row, col).
// Unset cells read as zero; space is never reclaimed once a cell is set.
type IntMatrix struct {
	values []triplet
	rowcnt int
	colcnt int
}

type triplet struct {
	row, col int
	value    int
}

// New creates a sparse matrix sized rows x cols. Size is advisory only —
// Set/Add accept any non-negative index and grow row/col count as needed.
func New(rows, cols int) *IntMatrix {
	return &IntMatrix{values: []triplet{}, rowcnt: rows, colcnt: cols}
}

// M returns the row count.
func (m *IntMatrix) M() int { return m.rowcnt }

// N returns the column count.
func (m *IntMatrix) N() int { return m.colcnt }

// ValueCount returns the number of stored cells (a cell set to zero
// still counts).
func (m *IntMatrix) ValueCount() int { return len(m.values) }

// Value returns the counter at (i, j), or 0 if never set.
func (m *IntMatrix) Value(i, j int) int {
	for _, t := range m.values {
		if !t.storedLeftOf(i, j) {
			if t.storedAt(i, j) {
				return t.value
			}
			break
		}
	}
	return 0
}

// Set overwrites the counter at (i, j).
func (m *IntMatrix) Set(i, j, value int) *IntMatrix {
	return m.setOrAdd(i, j, value, false)
}

// Add increments the counter at (i, j) by value (creating it if absent).
func (m *IntMatrix) Add(i, j, value int) *IntMatrix {
	return m.setOrAdd(i, j, value, true)
}

func (m *IntMatrix) setOrAdd(i, j, value int, doAdd bool) *IntMatrix {
	if i >= m.rowcnt {
		m.rowcnt = i + 1
	}
	if j >= m.colcnt {
		m.colcnt = j + 1
	}
	at := 0
	for k, t := range m.values {
		if !t.storedLeftOf(i, j) {
			if t.storedAt(i, j) {
				if doAdd {
					m.values[k].value += value
				} else {
					m.values[k].value = value
				}
				return m
			}
			break
		}
		at++
	}
	tnew := triplet{row: i, col: j, value: value}
	m.values = append(m.values, tnew)
	copy(m.values[at+1:], m.values[at:])
	m.values[at] = tnew
	return m
}

func (t *triplet) storedLeftOf(i, j int) bool {
	return t.row < i || (t.row == i && t.col < j)
}

func (t *triplet) storedAt(i, j int) bool {
	return t.row == i && t.col == j
}
