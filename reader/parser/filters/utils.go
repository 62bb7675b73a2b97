package filters

import "io"

// countReader wraps a reader, tracking the number of bytes successfully
// read so far. Skippers use it to report how much of the input the
// encoded data actually occupied.
type countReader struct {
	r         io.Reader
	totalRead int
	pushback  []byte // bytes already counted, to be re-delivered before r
}

func newCountReader(r io.Reader) *countReader { return &countReader{r: r} }

func (c *countReader) Read(p []byte) (int, error) {
	if len(c.pushback) != 0 {
		n := copy(p, c.pushback)
		c.pushback = c.pushback[n:]
		return n, nil
	}
	n, err := c.r.Read(p)
	c.totalRead += n
	return n, err
}

func (c *countReader) ReadByte() (byte, error) {
	if len(c.pushback) != 0 {
		b := c.pushback[0]
		c.pushback = c.pushback[1:]
		return b, nil
	}
	var b [1]byte
	n, err := c.r.Read(b[:])
	c.totalRead += n
	if n == 0 && err == nil {
		err = io.ErrNoProgress
	}
	return b[0], err
}

// reacher reads from an underlying reader and stops (returning io.EOF)
// as soon as `pattern` has been read, inclusive. It is used to locate the
// End-Of-Data marker of filters whose encoding never embeds the marker
// bytes themselves (ASCII85, ASCIIHex).
type reacher struct {
	r       io.Reader
	pattern []byte
	matched int
	done    bool
}

func newReacher(r io.Reader, pattern []byte) *reacher {
	return &reacher{r: r, pattern: pattern}
}

func (rr *reacher) Read(p []byte) (int, error) {
	if rr.done {
		return 0, io.EOF
	}
	n, err := rr.r.Read(p)
	for i := 0; i < n; i++ {
		if p[i] == rr.pattern[rr.matched] {
			rr.matched++
			if rr.matched == len(rr.pattern) {
				rr.done = true
				return i + 1, nil
			}
		} else {
			rr.matched = 0
			if p[i] == rr.pattern[0] {
				rr.matched = 1
			}
		}
	}
	if err == nil {
		return n, nil
	}
	return n, err
}
