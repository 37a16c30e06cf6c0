package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-arena/internal/leaderboard"
)

var (
	flagScoresMode  string
	flagScoresLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Print the leaderboard",
	Long: `Print the top scores, optionally for one mode.

Examples:
  snake scores
  snake scores --mode walls
  snake scores --limit 50`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresMode, "mode", "all", "Mode filter: all, pass-through or walls")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", leaderboard.DefaultLimit, "Number of entries (max 100)")
}

func runScores(_ *cobra.Command, _ []string) {
	filter, err := leaderboard.ParseFilter(flagScoresMode)
	if err != nil {
		exitf("%v", err)
	}

	cfg := loadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		exitf("%v", err)
	}
	defer b.Close()

	entries, err := b.service.Leaderboard(ctx, leaderboard.ClampLimit(flagScoresLimit), filter)
	if err != nil {
		exitf("cannot load leaderboard: %v", err)
	}

	fmt.Printf("High Scores - %s\n", filter.Label())
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Run 'snake play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-16s  %-6s  %-12s  %s\n", "Rank", "Player", "Score", "Mode", "Date")
	fmt.Printf("  %-4s  %-16s  %-6s  %-12s  %s\n", "----", "------", "-----", "----", "----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-16s  %-6d  %-12s  %s\n",
			i+1, e.Username, e.Score, e.Mode.Label(), e.Date.Local().Format("2006-01-02 15:04"))
	}
}
