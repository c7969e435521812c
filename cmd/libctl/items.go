package main

import (
	"fmt"

	"library-manager/library"

	"github.com/spf13/cobra"
)

var (
	bookAuthor string
	bookYear   int
	bookGenre  string
)

var addBookCmd = &cobra.Command{
	Use:   "add-book <id> <title>",
	Short: "Add a book to the catalog",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		lib, store := openLibrary()
		lib.AddItem(library.NewBook(args[0], args[1], bookAuthor, bookYear, bookGenre))
		saveLibrary(lib, store)
		fmt.Printf("Added book %s\n", args[0])
	},
}

var removeItemCmd = &cobra.Command{
	Use:   "remove-item <id>",
	Short: "Remove an item from the catalog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib, store := openLibrary()
		item := lib.RemoveItem(args[0])
		if item == nil {
			fmt.Printf("No item with id %s\n", args[0])
			return
		}
		saveLibrary(lib, store)
		fmt.Printf("Removed %s\n", item.Details())
	},
}

var listItemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List all items in the catalog",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		lib, _ := openLibrary()
		for _, item := range lib.ListItems() {
			fmt.Println(item.Details())
		}
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search items by title",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib, _ := openLibrary()
		results := lib.SearchByTitle(args[0])
		if len(results) == 0 {
			fmt.Println("No results")
			return
		}
		for _, item := range results {
			fmt.Println(item.Details())
		}
	},
}

func init() {
	addBookCmd.Flags().StringVar(&bookAuthor, "author", "", "Book author")
	addBookCmd.Flags().IntVar(&bookYear, "year", 0, "Publication year")
	addBookCmd.Flags().StringVar(&bookGenre, "genre", "", "Book genre")

	rootCmd.AddCommand(addBookCmd, removeItemCmd, listItemsCmd, searchCmd)
}
