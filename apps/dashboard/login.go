package main

import (
	"fmt"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var readPasswordFunc = term.ReadPassword // mockable

var loginCmd = &cobra.Command{
	Use:   "login USERNAME",
	Short: "Sign in and store the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			return errors.New("password is required")
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		if err := client.Login(cmd.Context(), args[0], string(pwd)); err != nil {
			return err
		}
		fmt.Println("signed in")
		return nil
	},
}
