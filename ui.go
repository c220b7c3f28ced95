package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// TerminalUI is the interactive view layer. It is thin glue: every state
// transition lives in the session store and the controllers, the terminal
// only renders snapshots and forwards user actions.
type TerminalUI struct {
	logger  *zap.Logger
	config  *Config
	in      *bufio.Scanner
	out     io.Writer
	session *SessionStore
	guard   *RouteGuard
	client  *APIClient
	books   *BookListController

	// detail is the controller of the currently opened book view.
	// Opening another book replaces it, so a late response bound to the
	// previous view can never leak into the new one.
	detail *BookDetailController

	// who is the display name shown in the prompt. It follows the
	// session through a watcher, not by polling.
	whoMu sync.Mutex
	who   string
}

// NewTerminalUI provides a terminal view reading from stdin.
func NewTerminalUI(logger *zap.Logger, config *Config, session *SessionStore, guard *RouteGuard, client *APIClient, books *BookListController) *TerminalUI {
	ui := &TerminalUI{
		logger:  logger,
		config:  config,
		in:      bufio.NewScanner(os.Stdin),
		out:     os.Stdout,
		session: session,
		guard:   guard,
		client:  client,
		books:   books,
	}
	session.Subscribe(ui.onSessionChange)
	return ui
}

// onSessionChange keeps the prompt name in sync with the session.
func (ui *TerminalUI) onSessionChange(session Session) {
	ui.whoMu.Lock()
	defer ui.whoMu.Unlock()
	if session.State == AuthStateAuthorized {
		ui.who = session.User.Name
		return
	}
	ui.who = ""
}

// promptLabel renders the command prompt, prefixed with the logged-in
// user name when there is one.
func (ui *TerminalUI) promptLabel() string {
	ui.whoMu.Lock()
	defer ui.whoMu.Unlock()
	if ui.who == "" {
		return "> "
	}
	return ui.who + "> "
}

// Run starts the command loop and blocks until the user quits or the
// input stream ends.
func (ui *TerminalUI) Run() error {
	ui.printf("Welcome to the book review client.")
	ui.printf("Type 'help' to list the available commands.")
	ui.pageBooksList()

	for {
		ui.printf("")
		fmt.Fprint(ui.out, ui.promptLabel())
		if !ui.in.Scan() {
			return ui.in.Err()
		}
		line := strings.TrimSpace(ui.in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			ui.pageHelp()
		case "books":
			ui.pageBooksList()
		case "next":
			ui.books.Next(ui.ctx())
			ui.renderBooksList()
		case "prev":
			ui.books.Prev(ui.ctx())
			ui.renderBooksList()
		case "open":
			ui.pageBookDetails(args)
		case "review":
			ui.pageAddReview()
		case "rm-review":
			ui.pageDeleteReview(args)
		case "add-book":
			ui.pageBookForm("")
		case "edit-book":
			ui.pageEditBook(args)
		case "login":
			ui.pageLogin()
		case "signup":
			ui.pageSignup()
		case "logout":
			ui.session.Logout()
			ui.printf("You are logged out.")
		case "whoami":
			ui.pageWhoAmI()
		case "quit", "exit":
			ui.printf("Goodbye!")
			return nil
		default:
			ui.printf("Unknown command %q. Type 'help' to list the available commands.", cmd)
		}
	}
}

// guardProtected gates a protected destination. It returns true when the
// view may render. On redirect it drops the user into the login page and
// reports whether the login turned the session authorized.
func (ui *TerminalUI) guardProtected(destination string) bool {
	switch ui.guard.Evaluate(destination) {
	case RenderDestination:
		return true
	case RenderLoading:
		ui.printf("Loading...")
		return false
	default:
		ui.printf("Please login to continue.")
		ui.pageLogin()
		return ui.session.State() == AuthStateAuthorized
	}
}

func (ui *TerminalUI) printf(format string, args ...interface{}) {
	fmt.Fprintf(ui.out, format+"\n", args...)
}

// prompt reads one trimmed line after displaying a label.
func (ui *TerminalUI) prompt(label string) string {
	fmt.Fprint(ui.out, label)
	if !ui.in.Scan() {
		return ""
	}
	return strings.TrimSpace(ui.in.Text())
}
