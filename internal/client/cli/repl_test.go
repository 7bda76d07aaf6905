package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	admin    bool

	calls []string
}

func (f *fakeExec) record(name string, args ...string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return nil
}

func (f *fakeExec) isLoggedIn() bool                   { return f.loggedIn }
func (f *fakeExec) isAdmin() bool                      { return f.loggedIn && f.admin }
func (f *fakeExec) Register(ctx context.Context) error { return f.record("register") }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Whoami(ctx context.Context) error    { return f.record("whoami") }
func (f *fakeExec) Dashboard(ctx context.Context) error { return f.record("dashboard") }
func (f *fakeExec) List(ctx context.Context, args []string) error {
	return f.record("list", args...)
}
func (f *fakeExec) Show(ctx context.Context, args []string) error {
	return f.record("show", args...)
}
func (f *fakeExec) Add(ctx context.Context, args []string) error {
	return f.record("add", args...)
}
func (f *fakeExec) Edit(ctx context.Context, args []string) error {
	return f.record("edit", args...)
}
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	return f.record("delete", args...)
}
func (f *fakeExec) RunCrawl(ctx context.Context, args []string) error {
	return f.record("run", args...)
}
func (f *fakeExec) Unread(ctx context.Context) error { return f.record("unread") }

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func reader(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{admin: true}
	runREPL(context.Background(), exec, func() string { return "status" }, reader(
		"help",
		"dashboard",
		"login",
		"help",
		"l competitors name=Acme",
		"show i-1",
		"add insight",
		"edit competitor c-1",
		"d insight i-1",
		"run j-1",
		"unread",
		"whoami",
		"",
		"foobar",
		"logout",
		"exit",
		"login",
	))

	assert.Equal(t, []string{
		"login",
		"list competitors name=Acme",
		"show i-1",
		"add insight",
		"edit competitor c-1",
		"delete insight i-1",
		"run j-1",
		"unread",
		"whoami",
		"logout",
	}, exec.calls)

	assert.Contains(t, *out, helpAnonymous)
	assert.Contains(t, *out, helpLoggedIn)
	assert.Contains(t, *out, helpCrawler)
	assert.Contains(t, *out, "Please login first")
	assert.Contains(t, *out, "Unknown command:foobar")
	assert.Contains(t, *out, "pi> status > ")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_EOFWithoutNewline(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, reader("dashboard"))

	require.Equal(t, []string{"dashboard"}, exec.calls)
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	capturePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{loggedIn: true}
	runREPL(ctx, exec, func() string { return "" }, reader("dashboard", "unread"))

	assert.Empty(t, exec.calls)
}

func TestRunREPL_CrawlerCommandsNeedAdmin(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, reader(
		"help",
		"list jobs",
		"l documents",
		"add job",
		"delete job j-1",
		"d job j-1",
		"run j-1",
		"list competitors",
		"add insight",
		"delete insight i-1",
	))

	assert.Equal(t, []string{"list competitors", "add insight", "delete insight i-1"}, exec.calls)
	assert.Contains(t, *out, helpLoggedIn)
	assert.NotContains(t, *out, helpCrawler)

	denied := 0
	for _, line := range *out {
		if line == adminOnly {
			denied++
		}
	}
	assert.Equal(t, 6, denied)
}

func TestIsCrawler(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"run j-1", true},
		{"run", true},
		{"list jobs", true},
		{"l documents", true},
		{"add job", true},
		{"delete job j-1", true},
		{"d job j-1", true},
		{"list competitors", false},
		{"list", false},
		{"add competitor", false},
		{"edit job j-1", false},
		{"show i-1", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			parts := strings.Fields(tt.line)
			assert.Equal(t, tt.want, isCrawler(parts[0], parts[1:]))
		})
	}
}
