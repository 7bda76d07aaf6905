package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// console serialises writes from the REPL and background watchers.
type console struct {
	mu sync.Mutex
	w  io.Writer
}

func newConsole(w io.Writer) *console {
	if c, ok := w.(*console); ok {
		return c
	}
	return &console{w: w}
}

func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Write(p)
}

var alertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

// Notifier prints global fault messages to the console.
type Notifier struct {
	out *console
}

// NewNotifier returns a Notifier writing to w. Passing the same w to NewApp
// keeps notifications and command output from interleaving mid-line.
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{out: newConsole(w)}
}

// Writer is the synchronised writer shared with the App.
func (n *Notifier) Writer() io.Writer { return n.out }

func (n *Notifier) Notify(_ context.Context, message string) {
	fmt.Fprintln(n.out, alertStyle.Render("! "+message))
}
