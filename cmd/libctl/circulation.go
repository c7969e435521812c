package main

import (
	"fmt"

	"library-manager/library"

	"github.com/spf13/cobra"
)

var returnByItem bool

var checkoutCmd = &cobra.Command{
	Use:   "checkout <item-id> <member-id>",
	Short: "Check an item out to a member",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		lib, store := openLibrary()
		loan, err := lib.Checkout(args[0], args[1])
		if err != nil {
			fatal("checkout", err)
		}
		saveLibrary(lib, store)
		fmt.Printf("Checked out. Loan id=%s due=%s\n", loan.ID, loan.DueDate.Format("2006-01-02"))
	},
}

var returnCmd = &cobra.Command{
	Use:   "return <loan-id>",
	Short: "Return a loan (or an item with --by-item)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib, store := openLibrary()

		var (
			loan *library.Loan
			err  error
		)
		if returnByItem {
			loan, err = lib.ReturnByItemID(args[0])
		} else {
			loan, err = lib.ReturnByLoanID(args[0])
		}
		if err != nil {
			fatal("return", err)
		}
		saveLibrary(lib, store)
		fmt.Printf("Returned. Fine: %.2f\n", lib.Fine(loan))
	},
}

var listLoansCmd = &cobra.Command{
	Use:   "loans",
	Short: "List the full loan history with fines",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		lib, _ := openLibrary()
		for _, loan := range lib.ListLoans() {
			fmt.Printf("%s | fine=%.2f\n", loan.String(), lib.Fine(loan))
		}
	},
}

func init() {
	returnCmd.Flags().BoolVar(&returnByItem, "by-item", false, "Treat the argument as an item id")

	rootCmd.AddCommand(checkoutCmd, returnCmd, listLoansCmd)
}
