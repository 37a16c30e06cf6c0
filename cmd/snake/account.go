package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Sign in to the remote leaderboard",
	Args:  cobra.MaximumNArgs(1),
	Run:   runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup [username]",
	Short: "Create an account on the remote leaderboard",
	Args:  cobra.MaximumNArgs(1),
	Run:   runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the remote leaderboard",
	Args:  cobra.NoArgs,
	Run:   runLogout,
}

// remoteBackend opens the configured server or exits when none is set.
func remoteBackend(ctx context.Context) backend {
	cfg := loadConfig()
	if !cfg.Remote() {
		exitf("no leaderboard server configured; set api.url in %s", configHint())
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		exitf("%v", err)
	}
	return b
}

func runLogin(_ *cobra.Command, args []string) {
	ctx := context.Background()
	b := remoteBackend(ctx)

	in := bufio.NewReader(os.Stdin)
	username := argOrPrompt(in, args, "Username: ")
	password := promptPassword("Password: ")

	u, err := b.auth.Login(ctx, username, password)
	if err != nil {
		exitf("login failed: %v", err)
	}
	fmt.Printf("Signed in as %s\n", u.Username)
}

func runSignup(_ *cobra.Command, args []string) {
	ctx := context.Background()
	b := remoteBackend(ctx)

	in := bufio.NewReader(os.Stdin)
	username := argOrPrompt(in, args, "Username: ")
	email := prompt(in, "Email: ")
	password := promptPassword("Password: ")
	if confirm := promptPassword("Repeat password: "); confirm != password {
		exitf("passwords do not match")
	}

	u, err := b.auth.Signup(ctx, username, email, password)
	if err != nil {
		exitf("signup failed: %v", err)
	}
	fmt.Printf("Account created, signed in as %s\n", u.Username)
}

func runLogout(_ *cobra.Command, _ []string) {
	ctx := context.Background()
	b := remoteBackend(ctx)

	if !b.service.Authenticated() {
		fmt.Println("Not signed in.")
		return
	}
	if err := b.auth.Logout(ctx); err != nil {
		exitf("logout failed: %v", err)
	}
	fmt.Println("Signed out.")
}

func argOrPrompt(in *bufio.Reader, args []string, label string) string {
	if len(args) > 0 {
		return args[0]
	}
	return prompt(in, label)
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		exitf("cannot read input: %v", err)
	}
	return strings.TrimSpace(line)
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(label string) string {
	fmt.Print(label)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(bufio.NewReader(os.Stdin), "")
	}
	data, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		exitf("cannot read password: %v", err)
	}
	return string(data)
}
