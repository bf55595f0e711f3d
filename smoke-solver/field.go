package smoke

import "fmt"

// Field is a square scalar grid of size n stored in a single (n+1)x(n+1) buffer.
// Only the [0,n) region holds data; the extra row and column stay zero and are
// read by staggered face lookups at the upper edge.
type Field struct {
	n      int
	stride int
	cells  []float64
}

func newField(n int) *Field {
	return &Field{
		n:      n,
		stride: n + 1,
		cells:  make([]float64, (n+1)*(n+1)),
	}
}

func (f *Field) idx(i, j int) int {
	return i*f.stride + j
}

// at reads a cell without the range check. Callers keep i and j within [0,n].
func (f *Field) at(i, j int) float64 {
	return f.cells[f.idx(i, j)]
}

func (f *Field) check(i, j int) {
	if i < 0 || i >= f.n {
		panic(fmt.Sprintf("invalid x-index: %d", i))
	}
	if j < 0 || j >= f.n {
		panic(fmt.Sprintf("invalid y-index: %d", j))
	}
}

// Size returns the number of active cells per axis.
func (f *Field) Size() int {
	return f.n
}

// At returns the value stored at cell (i, j).
func (f *Field) At(i, j int) float64 {
	f.check(i, j)
	return f.cells[f.idx(i, j)]
}

// Set overwrites the value stored at cell (i, j).
func (f *Field) Set(i, j int, val float64) {
	f.check(i, j)
	f.cells[f.idx(i, j)] = val
}

// Add accumulates val into cell (i, j).
func (f *Field) Add(i, j int, val float64) {
	f.check(i, j)
	f.cells[f.idx(i, j)] += val
}

// Fill sets every active cell to val. The padding is left untouched.
func (f *Field) Fill(val float64) {
	for i := 0; i < f.n; i++ {
		row := f.cells[i*f.stride : i*f.stride+f.n]
		for j := range row {
			row[j] = val
		}
	}
}

// Values returns a row-major copy of the active n*n region.
func (f *Field) Values() []float64 {
	out := make([]float64, 0, f.n*f.n)
	for i := 0; i < f.n; i++ {
		out = append(out, f.cells[i*f.stride:i*f.stride+f.n]...)
	}
	return out
}

func (f *Field) zero() {
	for i := range f.cells {
		f.cells[i] = 0
	}
}

func (f *Field) clone() *Field {
	c := newField(f.n)
	copy(c.cells, f.cells)
	return c
}
