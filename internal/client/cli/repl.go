package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Dashboard(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	RunCrawl(ctx context.Context, args []string) error
	Unread(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: whoami, dashboard, (l)ist <kind> [key=value...], show <insight-id>, " +
		"add <kind>, edit <kind> <id>, (d)elete <kind> <id>, unread, logout, exit\n" +
		"Kinds: competitors, insights, trials <competitor-id>, subscriptions, notifications, users"
	helpCrawler = "Crawler: (l)ist jobs|documents, add job, (d)elete job <id>, run <job-id>"

	adminOnly = "Crawler commands are available to administrators only"
)

// runREPL reads commands from reader until EOF, "exit" or "quit", and
// dispatches them to a. Handlers report their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("pi> %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		dispatch(ctx, a, cmd, args)
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
			if a.isAdmin() {
				printlnFn(helpCrawler)
			}
		} else {
			printlnFn(helpAnonymous)
		}
		return
	case "register":
		_ = a.Register(ctx)
		return
	case "login":
		_ = a.Login(ctx)
		return
	}

	if !a.isLoggedIn() {
		if isKnown(cmd) {
			printlnFn("Please login first")
		} else {
			printlnFn("Unknown command:", cmd)
		}
		return
	}

	if isCrawler(cmd, args) && !a.isAdmin() {
		printlnFn(adminOnly)
		return
	}

	switch cmd {
	case "logout":
		_ = a.Logout(ctx)
	case "whoami":
		_ = a.Whoami(ctx)
	case "dashboard":
		_ = a.Dashboard(ctx)
	case "l", "list":
		_ = a.List(ctx, args)
	case "show":
		_ = a.Show(ctx, args)
	case "add":
		_ = a.Add(ctx, args)
	case "edit":
		_ = a.Edit(ctx, args)
	case "d", "delete":
		_ = a.Delete(ctx, args)
	case "run":
		_ = a.RunCrawl(ctx, args)
	case "unread":
		_ = a.Unread(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}

func isKnown(cmd string) bool {
	switch cmd {
	case "logout", "whoami", "dashboard", "l", "list", "show", "add", "edit", "d", "delete", "run", "unread":
		return true
	}
	return false
}

// isCrawler reports whether the command touches crawl jobs or their documents.
func isCrawler(cmd string, args []string) bool {
	if cmd == "run" {
		return true
	}
	if len(args) == 0 {
		return false
	}
	switch cmd {
	case "l", "list":
		return args[0] == "jobs" || args[0] == "documents"
	case "add", "d", "delete":
		return args[0] == "job"
	}
	return false
}
