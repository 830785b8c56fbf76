package slices

// Chunk divides a slice into smaller sub-slices of the specified size.
// All sub-slices except possibly the last one will have exactly 'size'
// elements. The last sub-slice may contain fewer elements if the input
// length is not evenly divisible by size.
//
// Parameters:
//   - s: The input slice to be divided
//   - size: The maximum size of each sub-slice. If size <= 0, returns a
//     slice containing the original slice as the only element
//
// Returns:
//   - A slice of sub-slices, where each sub-slice has at most 'size'
//     elements
//
// Examples:
//
//	numbers := []int{1, 2, 3, 4, 5, 6}
//	chunks := Chunk(numbers, 2)
//	// Result: [[1, 2], [3, 4], [5, 6]]
func Chunk[S ~[]E, E any](s S, size int) []S {
	if size <= 0 {
		return []S{s}
	}

	var (
		l  = len(s)
		rv = make([]S, 0, (l+size-1)/size)
	)

	for i := 0; i < l; i += size {
		end := min(i+size, l)
		rv = append(rv, s[i:end:end])
	}

	return rv
}
