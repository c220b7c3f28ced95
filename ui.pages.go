package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// ctx provides the context of one user action. Deadlines are owned by the
// http client so a dead backend never hangs the terminal forever.
func (ui *TerminalUI) ctx() context.Context {
	return context.Background()
}

func (ui *TerminalUI) pageHelp() {
	ui.printf("Available commands:")
	ui.printf("  books                 show the books list")
	ui.printf("  next | prev           change the books list page")
	ui.printf("  open <n|id>           open a book with its reviews")
	ui.printf("  review                add a review to the opened book")
	ui.printf("  rm-review <n>         delete one of your reviews")
	ui.printf("  add-book              add a new book (login required)")
	ui.printf("  edit-book <n|id>      edit a book (login required)")
	ui.printf("  login | signup        authenticate or create an account")
	ui.printf("  logout | whoami       session commands")
	ui.printf("  quit                  leave")
}

func (ui *TerminalUI) pageBooksList() {
	ui.detail = nil
	state := ui.books.State()
	ui.books.Load(ui.ctx(), state.Page)
	ui.renderBooksList()
}

func (ui *TerminalUI) renderBooksList() {
	state := ui.books.State()
	if state.Loading {
		ui.printf("Loading books...")
		return
	}
	if state.Error != "" {
		ui.printf("%s", state.Error)
		return
	}
	if len(state.Items) == 0 {
		ui.printf("No books found.")
		return
	}
	ui.printf("All books (page %d of %d):", state.Page, state.TotalPages)
	for i, book := range state.Items {
		year := "-"
		if book.Year != 0 {
			year = strconv.Itoa(book.Year)
		}
		ui.printf("  %2d. %s by %s (%s) - %.1f stars (%d reviews)",
			i+1, book.Title, book.Author, year, book.AvgRating, book.ReviewsCount)
	}
}

// resolveBookID turns an `open`/`edit-book` argument into a book id. A
// small number selects from the current list page, anything else is
// treated as a raw id.
func (ui *TerminalUI) resolveBookID(args []string) (string, bool) {
	if len(args) == 0 {
		ui.printf("Tell me which book, e.g. 'open 1'.")
		return "", false
	}
	arg := args[0]
	if n, err := strconv.Atoi(arg); err == nil {
		items := ui.books.State().Items
		if n < 1 || n > len(items) {
			ui.printf("There is no book %d on this page.", n)
			return "", false
		}
		return items[n-1].ID, true
	}
	return arg, true
}

func (ui *TerminalUI) pageBookDetails(args []string) {
	id, ok := ui.resolveBookID(args)
	if !ok {
		return
	}
	// A fresh controller per opened book: leftover state of a previously
	// opened book never bleeds into this view.
	ui.detail = NewBookDetailController(ui.logger, ui.client, ui.session)
	ui.detail.LoadBook(ui.ctx(), id)
	ui.renderBookDetails()
}

func (ui *TerminalUI) renderBookDetails() {
	state := ui.detail.State()
	if state.Loading {
		ui.printf("Loading...")
		return
	}
	if state.Book == nil {
		ui.printf("%s", state.Message)
		return
	}
	book := state.Book
	ui.printf("%s", book.Title)
	ui.printf("  Author: %s", book.Author)
	if book.Year != 0 {
		ui.printf("  Year: %d", book.Year)
	}
	if book.Genre != "" {
		ui.printf("  Genre: %s", book.Genre)
	}
	ui.printf("  Average rating: %s", ui.detail.DisplayAverage())
	if book.Description != "" {
		ui.printf("  %s", book.Description)
	}
	ui.printf("")
	if len(state.Reviews) == 0 {
		ui.printf("No reviews yet.")
		return
	}
	ui.printf("Reviews:")
	for i, review := range state.Reviews {
		owner := ""
		if ui.detail.CanDelete(review) {
			owner = " (yours)"
		}
		author := review.Author.Name
		if author == "" {
			author = "Anonymous"
		}
		ui.printf("  %2d. %s - %d stars%s", i+1, author, review.Rating, owner)
		ui.printf("      %s", review.ReviewTxt)
	}
}

func (ui *TerminalUI) pageAddReview() {
	if ui.detail == nil || ui.detail.State().Book == nil {
		ui.printf("Open a book first, e.g. 'open 1'.")
		return
	}
	if ui.session.State() != AuthStateAuthorized {
		ui.printf("Please login to add a review.")
		return
	}
	rating, _ := strconv.Atoi(ui.prompt("Rating (1-5): "))
	text := ui.prompt("Your review: ")

	_ = ui.detail.AddReview(ui.ctx(), rating, text)
	ui.printf("%s", ui.detail.State().Message)
}

func (ui *TerminalUI) pageDeleteReview(args []string) {
	if ui.detail == nil || ui.detail.State().Book == nil {
		ui.printf("Open a book first, e.g. 'open 1'.")
		return
	}
	if len(args) == 0 {
		ui.printf("Tell me which review, e.g. 'rm-review 1'.")
		return
	}
	n, err := strconv.Atoi(args[0])
	reviews := ui.detail.State().Reviews
	if err != nil || n < 1 || n > len(reviews) {
		ui.printf("There is no review %s.", args[0])
		return
	}
	review := reviews[n-1]

	// Deleting is irreversible so the view asks before acting.
	answer := ui.prompt("Are you sure you want to delete this review? (y/N): ")
	if !strings.EqualFold(answer, "y") {
		ui.printf("Kept the review.")
		return
	}
	_ = ui.detail.DeleteReview(ui.ctx(), review.ID)
	ui.printf("%s", ui.detail.State().Message)
}

// pageBookForm drives the add/edit book flow. An empty id means create.
func (ui *TerminalUI) pageBookForm(id string) {
	destination := "add-book"
	if id != "" {
		destination = "edit-book"
	}
	if !ui.guardProtected(destination) {
		return
	}

	form := BookForm{}
	if id != "" {
		existing, err := ui.client.GetBook(ui.ctx(), id)
		if err != nil {
			ui.printf("Failed to load book details.")
			return
		}
		form = BookForm{
			Title:       existing.Title,
			Author:      existing.Author,
			Description: existing.Description,
			Genre:       existing.Genre,
			Year:        existing.Year,
		}
	}

	form.Title = orDefault(ui.prompt(labelWith("Title", form.Title)), form.Title)
	form.Author = orDefault(ui.prompt(labelWith("Author", form.Author)), form.Author)
	form.Description = orDefault(ui.prompt(labelWith("Description", form.Description)), form.Description)
	form.Genre = orDefault(ui.prompt(labelWith("Genre", form.Genre)), form.Genre)
	if year := ui.prompt(labelWith("Year", strconv.Itoa(form.Year))); year != "" {
		form.Year, _ = strconv.Atoi(year)
	}

	if err := CheckForm(&form); err != nil {
		ui.printf("%s", UserMessage(err))
		return
	}

	request := BookRequest{
		Title:       form.Title,
		Author:      form.Author,
		Description: form.Description,
		Genre:       form.Genre,
		Year:        form.Year,
	}
	var err error
	var saved Book
	if id == "" {
		saved, err = ui.client.CreateBook(ui.ctx(), request)
	} else {
		saved, err = ui.client.UpdateBook(ui.ctx(), id, request)
	}
	if err != nil {
		ui.printf("%s", UserMessage(err))
		return
	}
	ui.printf("Book %q saved.", saved.Title)
}

func (ui *TerminalUI) pageEditBook(args []string) {
	id, ok := ui.resolveBookID(args)
	if !ok {
		return
	}
	ui.pageBookForm(id)
}

func (ui *TerminalUI) pageLogin() {
	email := ui.prompt("Email: ")
	password, err := ui.readPassword("Password: ")
	if err != nil {
		ui.printf("Failed to read the password.")
		return
	}

	form := LoginForm{Email: email, Password: password}
	if err := CheckForm(&form); err != nil {
		ui.printf("%s", UserMessage(err))
		return
	}

	result, err := ui.client.Login(ui.ctx(), Credentials{Email: email, Password: password})
	if err != nil {
		ui.printf("%s", UserMessage(err))
		return
	}
	ui.session.Login(result.Token, result.User)
	ui.printf("Logged in successfully as %s.", result.User.Name)
}

func (ui *TerminalUI) pageSignup() {
	name := ui.prompt("Full name: ")
	email := ui.prompt("Email: ")
	password, err := ui.readPassword("Password: ")
	if err != nil {
		ui.printf("Failed to read the password.")
		return
	}

	form := SignupForm{Name: name, Email: email, Password: password}
	if err := CheckForm(&form); err != nil {
		ui.printf("%s", UserMessage(err))
		return
	}

	if err := ui.client.Signup(ui.ctx(), SignupRequest{Name: name, Email: email, Password: password}); err != nil {
		ui.printf("%s", UserMessage(err))
		return
	}
	ui.printf("Registered successfully! You can now login.")
}

func (ui *TerminalUI) pageWhoAmI() {
	session := ui.session.Current()
	switch session.State {
	case AuthStateAuthorized:
		ui.printf("Logged in as %s <%s>.", session.User.Name, session.User.Email)
	case AuthStateUnknown:
		ui.printf("Session is still loading.")
	default:
		ui.printf("Not logged in.")
	}
}

// readPassword reads a password without echoing it back.
func (ui *TerminalUI) readPassword(label string) (string, error) {
	fmt.Fprint(ui.out, label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(ui.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytePassword)), nil
}

func labelWith(label, current string) string {
	if current == "" || current == "0" {
		return label + ": "
	}
	return fmt.Sprintf("%s [%s]: ", label, current)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
