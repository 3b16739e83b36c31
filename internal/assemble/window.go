package assemble

// windowSize is the number of lines the assembler looks at together: header,
// separator, and first data row.
const windowSize = 3

// slidingWindow holds the three most recent input lines, oldest first. Before
// three lines have been read the older slots hold empty strings.
type slidingWindow struct {
	lines [windowSize]string
}

// push shifts in the newest line, dropping the oldest.
func (w *slidingWindow) push(line string) {
	w.lines[0] = w.lines[1]
	w.lines[1] = w.lines[2]
	w.lines[2] = line
}

// oldest returns the presumed header line when a separator sits in the
// middle slot.
func (w *slidingWindow) oldest() string {
	return w.lines[0]
}

// middle returns the separator candidate.
func (w *slidingWindow) middle() string {
	return w.lines[1]
}

// newest returns the most recently pushed line.
func (w *slidingWindow) newest() string {
	return w.lines[2]
}
