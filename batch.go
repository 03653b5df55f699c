package lingo

// Partition splits entries into contiguous batches of at most size entries,
// preserving order. The last batch may be shorter. A size below 1 is treated
// as DefaultBatchSize.
func Partition(entries []Entry, size int) [][]Entry {
	if len(entries) == 0 {
		return nil
	}
	if size < 1 {
		size = DefaultBatchSize
	}

	batches := make([][]Entry, 0, (len(entries)+size-1)/size)
	for start := 0; start < len(entries); start += size {
		end := min(start+size, len(entries))
		batches = append(batches, entries[start:end])
	}
	return batches
}
