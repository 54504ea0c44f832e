package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session management commands",
	}

	cmd.AddCommand(newSessionStartCmd())
	cmd.AddCommand(newSessionShowCmd())
	cmd.AddCommand(newSessionActCmd())
	cmd.AddCommand(newSessionRestartCmd())
	cmd.AddCommand(newSessionRecordCmd())
	cmd.AddCommand(newSessionRenameCmd())
	cmd.AddCommand(newSessionDifficultyCmd())
	cmd.AddCommand(newSessionAbandonCmd())

	return cmd
}

// createSessionRequest is the request body for starting a session
type createSessionRequest struct {
	Mode       string        `json:"mode"`
	Difficulty string        `json:"difficulty,omitempty"`
	Players    []string      `json:"players,omitempty"`
	Rules      *rulesRequest `json:"rules,omitempty"`
}

// rulesRequest carries optional rule overrides
type rulesRequest struct {
	WinningScore int `json:"winning_score,omitempty"`
	DiceCount    int `json:"dice_count,omitempty"`
	DiceSides    int `json:"dice_sides,omitempty"`
}

func newSessionStartCmd() *cobra.Command {
	var (
		mode         string
		difficulty   string
		players      []string
		winningScore int
		diceCount    int
		diceSides    int
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new game session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := createSessionRequest{
				Mode:       mode,
				Difficulty: difficulty,
				Players:    players,
			}
			if winningScore > 0 || diceCount > 0 || diceSides > 0 {
				req.Rules = &rulesRequest{
					WinningScore: winningScore,
					DiceCount:    diceCount,
					DiceSides:    diceSides,
				}
			}

			var result Session

			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "vs_computer", "Game mode: vs_computer, two_player")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Computer difficulty: easy, medium, hard, adaptive")
	cmd.Flags().StringArrayVar(&players, "player", nil, "Player name (repeat for two-player games)")
	cmd.Flags().IntVar(&winningScore, "winning-score", 0, "Winning score (default: server default)")
	cmd.Flags().IntVar(&diceCount, "dice-count", 0, "Dice per roll (default: server default)")
	cmd.Flags().IntVar(&diceSides, "dice-sides", 0, "Sides per die (default: server default)")

	return cmd
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show session state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var result Session

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s", id), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionActCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "act <session-id> <action>",
		Short: "Submit a turn action (roll, hold, cheat, quit)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			action := args[1]

			req := map[string]string{"action": action}
			var result TurnResult

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/actions", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart <session-id>",
		Short: "Restart the session with scores reset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var result Session

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/restart", id), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <session-id>",
		Short: "Record a finished session's result to the score store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var result Session

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/record", id), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <session-id> <old-name> <new-name>",
		Short: "Rename a player in the session, carrying score history over",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			req := map[string]string{
				"old_name": args[1],
				"new_name": args[2],
			}
			var result Session

			if err := client.Patch(fmt.Sprintf("/api/v1/sessions/%s/players", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionDifficultyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "difficulty <session-id> <level>",
		Short: "Change the computer opponent's difficulty",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			req := map[string]string{"difficulty": args[1]}
			var result Session

			if err := client.Patch(fmt.Sprintf("/api/v1/sessions/%s/difficulty", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <session-id>",
		Short: "Abandon the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			if err := client.Delete(fmt.Sprintf("/api/v1/sessions/%s", id)); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Abandoned session %s", id))
			return nil
		},
	}
}
