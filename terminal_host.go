package main

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// TerminalHost is the real-terminal HostIO implementation: it reads raw
// stdin into a small channel that Poll/ReadByte drain, and writes output
// through a buffered stdout writer. It owns the terminal's line-buffering
// and echo toggle and the raw-mode/restore dance — the pieces the
// interpreter core treats as outside its scope. Only main.go ever
// constructs one; tests use BufferedHostIO instead.
type TerminalHost struct {
	fd           int
	oldTermState *term.State
	nonblockSet  bool

	in      chan byte
	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once

	out *bufio.Writer
}

// NewTerminalHost creates a host adapter reading from stdin and writing to
// stdout.
func NewTerminalHost() *TerminalHost {
	return &TerminalHost{
		in:     make(chan byte, 256),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		out:    bufio.NewWriter(os.Stdout),
	}
}

// Start puts stdin into raw, non-blocking mode and begins reading bytes into
// the input channel in a goroutine. Call Stop to restore stdin.
func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	// Raw mode disables OS-level echo and line buffering; the interpreter's
	// own trap handlers decide when a keystroke is echoed.
	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return fmt.Errorf("terminal_host: failed to set raw mode: %w", err)
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return fmt.Errorf("terminal_host: failed to set nonblocking stdin: %w", err)
	}
	h.nonblockSet = true

	go h.readLoop()
	return nil
}

func (h *TerminalHost) readLoop() {
	defer close(h.done)
	buf := make([]byte, 1)

	for {
		select {
		case <-h.stopCh:
			return
		default:
		}

		n, err := syscall.Read(h.fd, buf)
		if n > 0 {
			b := buf[0]
			// Raw mode sends CR for Enter; translate to LF so LC-3
			// programs see the newline they expect.
			if b == '\r' {
				b = '\n'
			}
			select {
			case h.in <- b:
			case <-h.stopCh:
				return
			}
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// Stop terminates the reader goroutine and restores the terminal to its
// original state. Safe to call more than once.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	_ = h.out.Flush()
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}

// Poll implements HostIO.
func (h *TerminalHost) Poll() bool {
	return len(h.in) > 0
}

// ReadByte implements HostIO, blocking until a keystroke arrives or the
// host is stopped.
func (h *TerminalHost) ReadByte() (byte, error) {
	select {
	case b := <-h.in:
		return b, nil
	case <-h.stopCh:
		return 0, fmt.Errorf("terminal_host: stopped")
	}
}

// WriteByte implements HostIO.
func (h *TerminalHost) WriteByte(b byte) error {
	return h.out.WriteByte(b)
}

// Flush implements HostIO.
func (h *TerminalHost) Flush() error {
	return h.out.Flush()
}
