package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Score history commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare `pig scores` shows the leaderboard
			return runLeaderboard()
		},
	}

	cmd.AddCommand(newScoresLeaderboardCmd())
	cmd.AddCommand(newScoresHistoryCmd())
	cmd.AddCommand(newScoresRenameCmd())
	cmd.AddCommand(newScoresClearCmd())
	cmd.AddCommand(newScoresChartCmd())

	return cmd
}

func runLeaderboard() error {
	var result Leaderboard

	if err := client.Get("/api/v1/scores", &result); err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	out.Print(result)
	return nil
}

func newScoresLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the leaderboard ranked by total points",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaderboard()
		},
	}
}

func newScoresHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <name>",
		Short: "Show a player's recorded games",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			var result PlayerScore

			if err := client.Get(fmt.Sprintf("/api/v1/scores/players/%s", url.PathEscape(name)), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newScoresRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename a player in the score records, merging histories",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"new_name": args[1]}
			var result PlayerScore

			if err := client.Patch(fmt.Sprintf("/api/v1/scores/players/%s", url.PathEscape(args[0])), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newScoresClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all recorded scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/scores"); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("All scores cleared")
			return nil
		},
	}
}

func newScoresChartCmd() *cobra.Command {
	var (
		perGame bool
		scale   int
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render an ASCII histogram of player scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			if scale < 1 {
				return fmt.Errorf("--scale must be at least 1")
			}

			var board Leaderboard
			if err := client.Get("/api/v1/scores", &board); err != nil {
				return err
			}

			if len(board.Players) == 0 {
				fmt.Println("No scores recorded yet.")
				return nil
			}

			if perGame {
				for _, p := range board.Players {
					var history PlayerScore
					if err := client.Get(fmt.Sprintf("/api/v1/scores/players/%s", url.PathEscape(p.Name)), &history); err != nil {
						return err
					}
					for _, g := range history.Games {
						fmt.Printf("%s (%s)\n", chartLine(p.Name, g.Points, scale), g.Date)
					}
				}
			} else {
				for _, p := range board.Players {
					fmt.Println(chartLine(p.Name, p.TotalPoints, scale))
				}
			}

			fmt.Println()
			fmt.Println("------------ KEY ------------")
			fmt.Println("*  | Bar represents points scored")
			fmt.Printf("Note: bar length scaled by %d points per *\n", scale)
			return nil
		},
	}

	cmd.Flags().BoolVar(&perGame, "per-game", false, "One bar per recorded game instead of per-player totals")
	cmd.Flags().IntVar(&scale, "scale", 10, "Points per * in the bars")

	return cmd
}

// chartLine renders one histogram row: centred name, centred points, bar
func chartLine(name string, points, scale int) string {
	bar := strings.Repeat("*", points/scale)
	return fmt.Sprintf("%s | %s | %s", center(name, 12), center(strconv.Itoa(points), 6), bar)
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
