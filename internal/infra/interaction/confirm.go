// Where: internal/infra/interaction/confirm.go
// What: huh-backed confirmation prompt.
// Why: Keyboard-driven confirm on terminals.
package interaction

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

var runConfirmPrompt = func(title, description string, answer *bool) error {
	return huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Create").
		Negative("Cancel").
		Value(answer).
		Run()
}

// HuhPrompter implements Prompter using the huh TUI library.
type HuhPrompter struct{}

func (HuhPrompter) Confirm(title, description string) (bool, error) {
	var answer bool
	if err := runConfirmPrompt(title, description, &answer); err != nil {
		return false, fmt.Errorf("prompt confirm: %w", err)
	}
	return answer, nil
}
