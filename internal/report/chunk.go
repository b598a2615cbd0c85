package report

// Partition splits commits into consecutive chunks of at most size elements,
// preserving order. Chunk i holds commits[i*size : (i+1)*size]. A size below
// one is treated as one.
func Partition(commits []CommitWithDiff, size int) [][]CommitWithDiff {
	if len(commits) == 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}
	chunks := make([][]CommitWithDiff, 0, (len(commits)+size-1)/size)
	for start := 0; start < len(commits); start += size {
		end := min(start+size, len(commits))
		chunks = append(chunks, commits[start:end:end])
	}
	return chunks
}
