package parallelism

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// printer serializes writes from concurrent workers. Each call is written atomically.
// The first write error is kept and reported by Err; later writes are dropped.
type printer struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) Print(a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprint(p.w, a...)
}

func (p *printer) Println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

// Element prints one traversed element followed by a space.
func (p *printer) Element(v any) {
	p.Print(fmt.Sprint(v), " ")
}

func (p *printer) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// formatDouble renders a float the way a double is usually shown to people: always
// with a fractional part ("20.0", "22.333333333333332").
func formatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
