// snake is a terminal snake game with a shared leaderboard and live
// spectating.
//
// Usage:
//
//	snake                  - Open the main menu
//	snake play             - Play a game
//	snake watch            - Watch live games
//	snake scores           - Print the leaderboard
//	snake login|signup     - Sign in to a remote leaderboard
//	snake logout           - Sign out of a remote leaderboard
//	snake serve            - Start the SSH server
//	snake api              - Start the HTTP leaderboard API
//	snake config           - Print the effective configuration
//
// Global flags:
//
//	--config <path>  - Configuration file (default: ~/.snake/config.yaml)
//	--seed <value>   - RNG seed for reproducible games
//	--name <name>    - Local profile name (default: OS user)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig string
	flagSeed   int64
	flagName   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - play, compete and spectate in your terminal",
	Long: `Snake is a terminal snake game on a 20x20 board.

Scores go to a leaderboard: a local SQLite file by default, or a shared
server when api.url is set in the configuration.

Available commands:
  play     - Play a game
  watch    - Watch live games
  scores   - Print the leaderboard
  login    - Sign in to the remote leaderboard
  signup   - Create a remote account
  logout   - Sign out
  serve    - Start the SSH server for remote play
  api      - Start the HTTP leaderboard API
  config   - Print the effective configuration

Examples:
  snake
  snake play --mode walls
  snake scores --mode pass-through --limit 20
  snake serve --ssh :2222`,
	Run: runMenu,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagName, "name", "", "Local profile name (default: OS user)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(configCmd)
}

// exitf prints an error and exits.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
