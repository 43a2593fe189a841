package hex

// CellPriorityQueue is a min-priority queue over small non-negative integer
// priorities. Each bucket is an intrusive singly linked list of cells with the
// same priority, threaded through Cell.NextWithSamePriority as indices into the
// owning grid's flat cell slice, so enqueueing never allocates per node.
type CellPriorityQueue struct {
	cells   []*Cell
	buckets []int // head cell index per priority, -1 when empty
	count   int
	minimum int
}

// NewCellPriorityQueue creates a queue over cells. Every cell's Index must be
// its position in the slice.
func NewCellPriorityQueue(cells []*Cell) *CellPriorityQueue {
	return &CellPriorityQueue{cells: cells}
}

// Reset rebinds the queue to a new cell slice, keeping the bucket storage
func (q *CellPriorityQueue) Reset(cells []*Cell) {
	q.cells = cells
	q.Clear()
}

func (q *CellPriorityQueue) Count() int { return q.count }

// Enqueue prepends cell to the bucket of its current search priority
func (q *CellPriorityQueue) Enqueue(cell *Cell) {
	q.count++
	q.insert(cell)
}

func (q *CellPriorityQueue) insert(cell *Cell) {
	priority := cell.SearchPriority()
	if priority < 0 {
		panic(ErrNegativePriority)
	}
	if priority < q.minimum {
		q.minimum = priority
	}
	for priority >= len(q.buckets) {
		q.buckets = append(q.buckets, -1)
	}
	cell.NextWithSamePriority = q.buckets[priority]
	q.buckets[priority] = cell.Index
}

// Dequeue removes and returns a cell with the lowest priority. The minimum
// cursor only moves forward between enqueues, so a full search is amortised
// O(1) per call. Calling Dequeue on an empty queue is a programming error.
func (q *CellPriorityQueue) Dequeue() *Cell {
	if q.count == 0 {
		panic(ErrEmptyQueue)
	}
	q.count--
	for ; q.minimum < len(q.buckets); q.minimum++ {
		head := q.buckets[q.minimum]
		if head >= 0 {
			cell := q.cells[head]
			q.buckets[q.minimum] = cell.NextWithSamePriority
			cell.NextWithSamePriority = -1
			return cell
		}
	}
	panic(ErrEmptyQueue)
}

// Change moves an already enqueued cell from the bucket of oldPriority to the
// bucket of its current priority. The count is unchanged.
func (q *CellPriorityQueue) Change(cell *Cell, oldPriority int) {
	current := q.buckets[oldPriority]
	if current == cell.Index {
		q.buckets[oldPriority] = cell.NextWithSamePriority
	} else {
		prev := q.cells[current]
		for prev.NextWithSamePriority != cell.Index {
			prev = q.cells[prev.NextWithSamePriority]
		}
		prev.NextWithSamePriority = cell.NextWithSamePriority
	}
	q.insert(cell)
}

// Clear empties the queue without releasing bucket storage
func (q *CellPriorityQueue) Clear() {
	for i := range q.buckets {
		q.buckets[i] = -1
	}
	q.count = 0
	q.minimum = 0
}
