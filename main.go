package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"library-manager/library"

	"go.uber.org/zap"
)

const configFile = "library.yaml"

func main() {
	cfg, err := library.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if os.Getenv("LIBRARY_DEBUG") != "" {
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	store, err := library.NewStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := []library.Option{library.WithConfig(cfg), library.WithLogger(logger)}
	lib, err := store.Load(opts...)
	if err != nil {
		if !errors.Is(err, library.ErrLoadFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		// No usable saved state; start fresh.
		lib = library.New(opts...)
		seedSampleData(lib)
		fmt.Println("Starting with a new library (no saved data found).")
	} else {
		fmt.Println("Loaded library from disk.")
	}

	runShell(lib, store)
}

func runShell(lib *library.Library, store library.Store) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to the Library Manager!")
	fmt.Println("Available commands:")
	fmt.Println("  Items: add book, remove item, list items, search")
	fmt.Println("  Members: add member, list members")
	fmt.Println("  Circulation: checkout, return, list loans")
	fmt.Println("  System: save, exit (saves automatically)")

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "add book":
			handleAddBook(scanner, lib)
		case "remove item":
			handleRemoveItem(scanner, lib)
		case "list items":
			handleListItems(lib)
		case "search":
			handleSearch(scanner, lib)
		case "add member":
			handleAddMember(scanner, lib)
		case "list members":
			handleListMembers(lib)
		case "checkout":
			handleCheckout(scanner, lib)
		case "return":
			handleReturn(scanner, lib)
		case "list loans":
			handleListLoans(lib)
		case "save":
			handleSave(lib, store)
		case "exit":
			handleSave(lib, store)
			fmt.Println("Goodbye!")
			return
		case "":
			// ignore blank lines
		default:
			fmt.Println("Unknown command")
		}
	}
}

func prompt(sc *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}

func handleAddBook(sc *bufio.Scanner, lib *library.Library) {
	id := prompt(sc, "Book ID: ")
	title := prompt(sc, "Title: ")
	author := prompt(sc, "Author: ")
	yearStr := prompt(sc, "Year: ")
	genre := prompt(sc, "Genre: ")

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		fmt.Println("Error: year must be a number")
		return
	}
	lib.AddItem(library.NewBook(id, title, author, year, genre))
	fmt.Println("Book added.")
}

func handleRemoveItem(sc *bufio.Scanner, lib *library.Library) {
	id := prompt(sc, "Item ID: ")
	if item := lib.RemoveItem(id); item != nil {
		fmt.Printf("Removed %s\n", item.Details())
	} else {
		fmt.Println("No item with that ID")
	}
}

func handleListItems(lib *library.Library) {
	items := lib.ListItems()
	if len(items) == 0 {
		fmt.Println("No items in the library")
		return
	}
	fmt.Println("Items in library:")
	for _, item := range items {
		fmt.Println(" - " + item.Details())
	}
}

func handleSearch(sc *bufio.Scanner, lib *library.Library) {
	term := prompt(sc, "Search term: ")
	results := lib.SearchByTitle(term)
	if len(results) == 0 {
		fmt.Println("No results")
		return
	}
	for _, item := range results {
		fmt.Println(" - " + item.Details())
	}
}

func handleAddMember(sc *bufio.Scanner, lib *library.Library) {
	id := prompt(sc, "Member ID: ")
	name := prompt(sc, "Name: ")
	email := prompt(sc, "Email: ")
	lib.AddMember(&library.Member{ID: id, Name: name, Email: email})
	fmt.Println("Member registered.")
}

func handleListMembers(lib *library.Library) {
	members := lib.ListMembers()
	if len(members) == 0 {
		fmt.Println("No members registered")
		return
	}
	fmt.Println("Members:")
	for _, m := range members {
		fmt.Println(" - " + m.String())
	}
}

func handleCheckout(sc *bufio.Scanner, lib *library.Library) {
	itemID := prompt(sc, "Item ID to checkout: ")
	memberID := prompt(sc, "Member ID: ")

	loan, err := lib.Checkout(itemID, memberID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Checked out. Loan id=%s due=%s\n", loan.ID, loan.DueDate.Format("2006-01-02"))
}

func handleReturn(sc *bufio.Scanner, lib *library.Library) {
	loanID := prompt(sc, "Loan ID (or press Enter to return by item id): ")

	var (
		loan *library.Loan
		err  error
	)
	if loanID != "" {
		loan, err = lib.ReturnByLoanID(loanID)
	} else {
		itemID := prompt(sc, "Item ID: ")
		loan, err = lib.ReturnByItemID(itemID)
		if errors.Is(err, library.ErrLoanNotFound) {
			fmt.Println("No active loan for that item")
			return
		}
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Returned. Fine: %.2f\n", lib.Fine(loan))
}

func handleListLoans(lib *library.Library) {
	loans := lib.ListLoans()
	if len(loans) == 0 {
		fmt.Println("No loans recorded")
		return
	}
	fmt.Println("Loans:")
	for _, loan := range loans {
		fmt.Printf(" - %s | fine=%.2f\n", loan.String(), lib.Fine(loan))
	}
}

func handleSave(lib *library.Library, store library.Store) {
	if err := store.Save(lib); err != nil {
		fmt.Printf("Save failed: %v\n", err)
		return
	}
	fmt.Println("Library saved.")
}

// seedSampleData keeps a first run from starting completely empty.
func seedSampleData(lib *library.Library) {
	lib.AddItem(library.NewBook("B001", "The Java Handbook", "Patrick Naughton", 1997, "Programming"))
	lib.AddItem(library.NewBook("B002", "Clean Code", "Robert C. Martin", 2008, "Programming"))
	lib.AddItem(library.NewBook("B003", "To Kill a Mockingbird", "Harper Lee", 1960, "Fiction"))
	lib.AddMember(&library.Member{ID: "M001", Name: "Alice", Email: "alice@example.com"})
	lib.AddMember(&library.Member{ID: "M002", Name: "Bob", Email: "bob@example.com"})
	fmt.Println("Sample data seeded.")
}
