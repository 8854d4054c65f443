package cli

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Action is a choice in the interactive prompt loop.
type Action string

const (
	ActionCalculate Action = "calculate"
	ActionExit      Action = "exit"
)

func Confirm(title string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes!").
				Negative("No").
				Value(&confirmed),
		),
	).WithAccessible(true)
	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}

// SelectAction asks the user to either calculate an allocation or exit.
func SelectAction() (Action, error) {
	action := ActionCalculate
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Title("What would you like to do?").
				Options(
					huh.NewOption("Calculate", ActionCalculate),
					huh.NewOption("Exit", ActionExit),
				).
				Value(&action),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}

	return action, nil
}

// IsStdinTerminal checks if the standard input is a terminal (TTY).
func IsStdinTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
