package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/services/notify"
	"github.com/trezcool/shule/services/rest"
	"github.com/trezcool/shule/services/session"
)

var rootCmd = &cobra.Command{
	Use:           "shule",
	Short:         "Shule is the terminal dashboard for the school management backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(loginCmd)
	for _, schema := range school.All() {
		rootCmd.AddCommand(newResourceCmd(schema))
	}
}

// newClient wires the session store and REST client every command shares.
func newClient() (*restsvc.Client, error) {
	sess, err := sessionsvc.NewFile(core.Conf.API.SessionFile)
	if err != nil {
		return nil, err
	}
	sess.OnExpire(func() {
		fmt.Fprintln(os.Stderr, "session expired; run `shule login` to sign in again")
	})
	return restsvc.NewClient(core.Conf.API, sess, logsvc.NewStdLogger(core.Conf)), nil
}

// newController builds the page-equivalent controller for one resource type.
func newController(schema resource.Schema) (*resource.Controller, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	return resource.NewController(&resource.Options{
		Schema:   schema,
		Backend:  client,
		Notifier: notifysvc.NewConsoleService(),
		Logger:   logsvc.NewStdLogger(core.Conf),
		Confirm:  confirmPrompt,
	}), nil
}

// confirmPrompt is the blocking yes/no gate every delete goes through.
func confirmPrompt(msg string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", msg)
	ans, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(ans)) == "y"
}
