package execution

// Batches splits items into consecutive chunks of at most size elements,
// keeping their order
func Batches[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	if len(items) == 0 {
		return nil
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
