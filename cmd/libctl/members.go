package main

import (
	"fmt"

	"library-manager/library"

	"github.com/spf13/cobra"
)

var memberEmail string

var addMemberCmd = &cobra.Command{
	Use:   "add-member <id> <name>",
	Short: "Register a library member",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		lib, store := openLibrary()
		lib.AddMember(&library.Member{ID: args[0], Name: args[1], Email: memberEmail})
		saveLibrary(lib, store)
		fmt.Printf("Registered member %s\n", args[0])
	},
}

var listMembersCmd = &cobra.Command{
	Use:   "members",
	Short: "List all registered members",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		lib, _ := openLibrary()
		for _, m := range lib.ListMembers() {
			fmt.Println(m.String())
		}
	},
}

func init() {
	addMemberCmd.Flags().StringVar(&memberEmail, "email", "", "Member email address")

	rootCmd.AddCommand(addMemberCmd, listMembersCmd)
}
