package main

import "sync"

// BufferedHostIO is a pure in-memory HostIO implementation: an input byte
// queue and an output byte buffer, with no goroutines and no syscalls.
// Tests construct one, feed it expected keystrokes with EnqueueByte, run a
// Machine against it, and inspect the result with DrainOutput. It is the
// same role TerminalMMIO played in the teacher engine — a state machine the
// host adapter feeds and tests can drive directly — narrowed to the LC-3's
// single keyboard-in/character-out contract.
type BufferedHostIO struct {
	mu sync.Mutex

	in  []byte
	out []byte
}

// NewBufferedHostIO returns an empty BufferedHostIO.
func NewBufferedHostIO() *BufferedHostIO {
	return &BufferedHostIO{}
}

// EnqueueByte appends c to the input queue, as if a key had been pressed.
func (b *BufferedHostIO) EnqueueByte(c byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.in = append(b.in, c)
}

// EnqueueString enqueues each byte of s in order, a convenience for tests
// that want to feed a line of input.
func (b *BufferedHostIO) EnqueueString(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.in = append(b.in, s...)
}

// Poll implements HostIO.
func (b *BufferedHostIO) Poll() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.in) > 0
}

// ReadByte implements HostIO. It never blocks: an empty queue returns an
// error, since a test fake has no host to wait on.
func (b *BufferedHostIO) ReadByte() (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.in) == 0 {
		return 0, errNoInput
	}
	c := b.in[0]
	b.in = b.in[1:]
	return c, nil
}

// WriteByte implements HostIO, appending to the output buffer.
func (b *BufferedHostIO) WriteByte(c byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.out = append(b.out, c)
	return nil
}

// Flush implements HostIO. BufferedHostIO has nothing to flush; output is
// visible to DrainOutput as soon as it is written.
func (b *BufferedHostIO) Flush() error {
	return nil
}

// DrainOutput returns and clears everything written so far.
func (b *BufferedHostIO) DrainOutput() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := string(b.out)
	b.out = nil
	return s
}

var errNoInput = noInputError{}

type noInputError struct{}

func (noInputError) Error() string { return "lc3: no input available" }
