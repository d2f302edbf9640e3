package spectrum

// Bass returns the mean magnitude of the lowest quarter of bins, normalized
// to 0..1.
func (s Snapshot) Bass() float64 {
	n := len(s) / 4
	if n == 0 {
		n = len(s)
	}
	if n == 0 {
		return 0
	}
	sum := 0
	for _, v := range s[:n] {
		sum += int(v)
	}
	return float64(sum) / float64(n) / 255
}

// Peak returns the loudest bin value.
func (s Snapshot) Peak() uint8 {
	var p uint8
	for _, v := range s {
		if v > p {
			p = v
		}
	}
	return p
}
