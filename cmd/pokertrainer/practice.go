package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/yeogirlyun/pokertrainer/internal/engine"
	"github.com/yeogirlyun/pokertrainer/internal/session"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	boardStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type PracticeCmd struct {
	Config string `short:"c" default:"pokertrainer.hcl" help:"Session config file (HCL)"`
	Hands  int    `help:"Override the configured number of hands"`
	Seed   int64  `help:"Override the configured RNG seed"`
}

func (c *PracticeCmd) Run(logger *log.Logger) error {
	cfg, err := session.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Hands > 0 {
		cfg.Session.Hands = c.Hands
	}
	if c.Seed != 0 {
		cfg.Session.Seed = c.Seed
	}

	practice, err := session.NewPractice(cfg, quartz.NewReal(), logger)
	if err != nil {
		return err
	}

	if human := practice.Human(); human != nil {
		go promptLoop(human)
	}

	if err := practice.Run(context.Background()); err != nil {
		return err
	}

	fmt.Println(promptStyle.Render("Final stacks:"))
	for seat, chips := range practice.Stacks() {
		fmt.Printf("  seat %d: %d chips\n", seat, chips)
	}
	return nil
}

// promptLoop renders each decision prompt and reads the answer from
// stdin. Unanswered prompts time out inside the proxy.
func promptLoop(human *session.HumanProxy) {
	scanner := bufio.NewScanner(os.Stdin)
	for view := range human.Prompts() {
		renderPrompt(view)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return
			}
			decision, err := parseDecision(scanner.Text(), view)
			if err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
				continue
			}
			human.Submit(decision)
			break
		}
	}
}

func renderPrompt(view engine.TableView) {
	fmt.Println()
	if len(view.Board) > 0 {
		fmt.Println(boardStyle.Render(fmt.Sprintf("Board: %s", cardLine(view))))
	}
	fmt.Printf("Your cards: %s   Pot: %d   To call: %d\n", view.HoleCards, view.Pot, view.ToCall)

	var options []string
	for _, va := range view.ValidActions {
		switch va.Action {
		case engine.Bet, engine.Raise:
			options = append(options, fmt.Sprintf("%s %d-%d",
				strings.ToLower(va.Action.String()), va.MinAmount, va.MaxAmount))
		default:
			options = append(options, strings.ToLower(va.Action.String()))
		}
	}
	fmt.Println(promptStyle.Render("Actions: " + strings.Join(options, ", ")))
}

func cardLine(view engine.TableView) string {
	parts := make([]string, len(view.Board))
	for i, c := range view.Board {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// parseDecision reads input like "fold", "call", "raise 60" or "r 60".
func parseDecision(input string, view engine.TableView) (engine.Decision, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return engine.Decision{}, fmt.Errorf("enter an action")
	}

	var action engine.ActionType
	switch fields[0] {
	case "fold", "f":
		action = engine.Fold
	case "check", "x":
		action = engine.Check
	case "call", "c":
		action = engine.Call
	case "bet", "b":
		action = engine.Bet
	case "raise", "r":
		action = engine.Raise
	case "allin", "all-in", "a":
		action = engine.AllIn
	default:
		return engine.Decision{}, fmt.Errorf("unknown action %q", fields[0])
	}

	if !view.CanTake(action) {
		return engine.Decision{}, fmt.Errorf("%s is not available here", fields[0])
	}

	decision := engine.Decision{Action: action}
	if action == engine.Bet || action == engine.Raise {
		if len(fields) < 2 {
			return engine.Decision{}, fmt.Errorf("%s needs an amount", fields[0])
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil {
			return engine.Decision{}, fmt.Errorf("bad amount %q", fields[1])
		}
		decision.Amount = amount
	}
	return decision, nil
}
