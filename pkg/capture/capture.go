// Package capture provides the sink examples print to instead of the console.
package capture

import (
	"bytes"
	"fmt"
)

// Capture accumulates everything an example prints. It implements io.Writer
// so it can be handed to anything that writes text.
//
// A Capture is not safe for concurrent use.
type Capture struct {
	buf bytes.Buffer
}

// New returns an empty Capture.
func New() *Capture {
	return &Capture{}
}

// Write appends p to the captured output.
func (c *Capture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

// Print formats like fmt.Print.
func (c *Capture) Print(a ...any) {
	fmt.Fprint(&c.buf, a...)
}

// Println formats like fmt.Println.
func (c *Capture) Println(a ...any) {
	fmt.Fprintln(&c.buf, a...)
}

// Printf formats like fmt.Printf.
func (c *Capture) Printf(format string, a ...any) {
	fmt.Fprintf(&c.buf, format, a...)
}

// Output returns everything written since the last Reset.
func (c *Capture) Output() string {
	return c.buf.String()
}

// Reset discards the captured output. The Capture stays usable.
func (c *Capture) Reset() {
	c.buf.Reset()
}
