package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	var (
		mode       string
		difficulty string
		name       string
		vs         string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play an interactive game",
		Long: `Play pig dice interactively against the computer or a second local player.

Each turn you may roll to build up turn points or hold to bank them.
Rolling the bust face loses the turn points and passes the turn. The
first player to bank the winning score wins the game.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(mode, difficulty, name, vs)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "vs_computer", "Game mode: vs_computer, two_player")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Computer difficulty: easy, medium, hard, adaptive")
	cmd.Flags().StringVar(&name, "name", "Player", "Your player name")
	cmd.Flags().StringVar(&vs, "vs", "", "Second player's name (implies two_player)")

	return cmd
}

var playCommands = map[string]string{
	"r": "roll", "roll": "roll",
	"h": "hold", "hold": "hold",
	"c": "cheat", "cheat": "cheat",
	"n": "name", "name": "name",
	"ai": "ai",
	"q":  "quit", "quit": "quit",
	"restart": "restart",
	"help":    "help", "?": "help",
}

const playHelp = `Commands during your turn:
  r, roll      - roll the dice
  h, hold      - bank the turn points
  c, cheat     - bank the cheat bonus and end the turn (if enabled)
  n, name      - change the active player's name (stats preserved)
  ai           - change the computer difficulty
  restart      - reset both players' scores
  q, quit      - abandon the game and exit
`

func runPlay(mode, difficulty, name, vs string) error {
	if vs != "" {
		mode = "two_player"
	}

	req := createSessionRequest{
		Mode:       mode,
		Difficulty: difficulty,
	}
	if mode == "two_player" {
		if name == "Player" {
			name = "Player1"
		}
		if vs == "" {
			vs = "Player2"
		}
		req.Players = []string{name, vs}
	} else {
		req.Players = []string{name}
	}

	var session Session
	if err := client.Post("/api/v1/sessions", req, &session); err != nil {
		return err
	}

	fmt.Printf("Pig dice - first to %d points wins. Type 'help' for commands.\n", session.Rules.WinningScore)

	stdin := bufio.NewScanner(os.Stdin)
	for {
		printPlayBoard(session)

		command := promptPlayCommand(stdin, session.ActivePlayer)
		switch command {
		case "roll", "hold", "cheat":
			var result TurnResult
			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/actions", session.ID), map[string]string{"action": command}, &result); err != nil {
				fmt.Printf("Error: %s\n", err)
				continue
			}
			fmt.Println()
			for _, e := range result.Events {
				fmt.Println(formatTurnEvent(e))
			}
			if err := refreshSession(&session); err != nil {
				return err
			}
			if session.Winner != nil {
				printPlayBoard(session)
				if !promptYes(stdin, "Play again? (y/n): ") {
					return nil
				}
				if err := restartSession(&session); err != nil {
					return err
				}
			}

		case "name":
			newName := promptLine(stdin, "New name [Enter to cancel]: ")
			if newName == "" {
				fmt.Println("Name change cancelled.")
				continue
			}
			oldName := session.ActivePlayer
			body := map[string]string{"old_name": oldName, "new_name": newName}
			if err := client.Patch(fmt.Sprintf("/api/v1/sessions/%s/players", session.ID), body, &session); err != nil {
				fmt.Printf("Error: %s\n", err)
				continue
			}
			fmt.Printf("Renamed %s to %s, stats carried over.\n", oldName, newName)

		case "ai":
			if !hasComputerSeat(session) {
				fmt.Println("Difficulty can only be changed when playing the computer.")
				continue
			}
			level := strings.ToLower(promptLine(stdin, "Difficulty (easy, medium, hard, adaptive) [Enter to cancel]: "))
			if level == "" {
				continue
			}
			if err := client.Patch(fmt.Sprintf("/api/v1/sessions/%s/difficulty", session.ID), map[string]string{"difficulty": level}, &session); err != nil {
				fmt.Printf("Error: %s\n", err)
				continue
			}
			fmt.Printf("Difficulty set to %s.\n", level)

		case "restart":
			if err := restartSession(&session); err != nil {
				fmt.Printf("Error: %s\n", err)
			}

		case "quit":
			var result TurnResult
			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/actions", session.ID), map[string]string{"action": "quit"}, &result); err != nil {
				return err
			}
			fmt.Println("Game abandoned.")
			return nil

		case "help":
			fmt.Print(playHelp, "\n")
		}
	}
}

func promptPlayCommand(stdin *bufio.Scanner, activePlayer string) string {
	for {
		fmt.Printf("%s> (r)oll, (h)old, (c)heat, (n)ame, (ai), (q)uit, restart, help: ", activePlayer)
		if !stdin.Scan() {
			// EOF abandons the game, same as quit
			return "quit"
		}
		choice := strings.ToLower(strings.TrimSpace(stdin.Text()))
		if command, ok := playCommands[choice]; ok {
			return command
		}
		fmt.Println("Unknown command. Type 'help' for allowed commands.")
	}
}

func promptLine(stdin *bufio.Scanner, prompt string) string {
	fmt.Print(prompt)
	if !stdin.Scan() {
		return ""
	}
	return strings.TrimSpace(stdin.Text())
}

func promptYes(stdin *bufio.Scanner, prompt string) bool {
	answer := strings.ToLower(promptLine(stdin, prompt))
	return answer == "y" || answer == "yes"
}

func printPlayBoard(s Session) {
	border := strings.Repeat("=", 44)
	fmt.Println()
	fmt.Println(border)
	for _, p := range s.Players {
		marker := " "
		if s.Winner == nil && p.Name == s.ActivePlayer {
			marker = ">"
		}
		label := p.Name
		if p.IsComputer {
			label += " [computer]"
		}
		fmt.Printf("%s %-32s %5d\n", marker, label, p.Score)
	}
	fmt.Println(border)
	if s.TurnPoints > 0 {
		fmt.Printf("Turn points: %d\n", s.TurnPoints)
	}
}

func hasComputerSeat(s Session) bool {
	for _, p := range s.Players {
		if p.IsComputer {
			return true
		}
	}
	return false
}

func refreshSession(session *Session) error {
	return client.Get(fmt.Sprintf("/api/v1/sessions/%s", session.ID), session)
}

func restartSession(session *Session) error {
	if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/restart", session.ID), nil, session); err != nil {
		return err
	}
	fmt.Println("Scores reset - new game.")
	return nil
}
