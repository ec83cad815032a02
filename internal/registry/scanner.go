package registry

// FindAvailablePort walks the inclusive range start-end in ascending
// order, skipping excluded ports and any the live check reports in use.
// It returns the first fully available port, or false if the range is
// exhausted. An empty range (start > end) yields false immediately.
func FindAvailablePort(start, end int, excluded map[int]bool, live func(port int) bool) (int, bool) {
	for port := start; port <= end; port++ {
		if excluded[port] {
			continue
		}
		if live != nil && live(port) {
			continue
		}
		return port, true
	}
	return 0, false
}
