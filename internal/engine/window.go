package engine

// SelectWindow returns the points a strategy should see.
//
// size <= 0 selects the whole history (linear). A positive size selects the last size
// points in arrival order, or the whole history when it is shorter; the caller checks the
// method minimum separately. The result shares storage with history but has its capacity
// capped so appending to it never writes into history.
func SelectWindow(history []Point, size int) []Point {
	n := len(history)
	if size <= 0 || size >= n {
		return history[:n:n]
	}
	return history[n-size : n : n]
}
