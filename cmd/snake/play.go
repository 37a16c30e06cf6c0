package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/platform/tui"
)

var flagMode string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game of snake.

Without --mode a mode picker is shown first.

Modes:
  pass-through - leaving one edge enters at the opposite one
  walls        - touching an edge ends the game

Controls:
  Arrows/WASD  - Steer
  P/Space      - Pause
  Enter/R      - Start or restart
  Esc          - Pause, then back to menu
  Ctrl+S       - Screenshot to ~/.snake/screenshots
  Q/Ctrl+C     - Quit

Examples:
  snake play
  snake play --mode walls
  snake play --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch live games",
	Long: `Follow the games other players are publishing.

Controls:
  Left/Right   - Switch player
  Enter        - Refresh the player list
  Esc          - Back to menu
  Q/Ctrl+C     - Quit`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		runApp(tui.Start{Screen: tui.ScreenWatch})
	},
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Game mode: pass-through or walls")
}

func runPlay(_ *cobra.Command, _ []string) {
	start := tui.Start{Screen: tui.ScreenGame}
	if flagMode != "" {
		mode, err := snake.ParseMode(flagMode)
		if err != nil {
			exitf("%v", err)
		}
		start.Mode = &mode
	}
	runApp(start)
}

func runMenu(_ *cobra.Command, _ []string) {
	runApp(tui.Start{Screen: tui.ScreenMenu})
}
