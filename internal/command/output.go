// Where: internal/command/output.go
// What: Output helpers for command adapters.
// Why: Resolve emoji support once and hand every usecase the same UserInterface.
package command

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/poruru-code/smvllm/internal/infra/interaction"
	"github.com/poruru-code/smvllm/internal/infra/ui"
)

func newUserInterface(cli CLI, out io.Writer) (ui.UserInterface, error) {
	emoji, err := resolveEmojiEnabled(out, cli)
	if err != nil {
		return nil, err
	}
	return ui.NewUI(out, emoji), nil
}

func resolveEmojiEnabled(out io.Writer, cli CLI) (bool, error) {
	if cli.Emoji && cli.NoEmoji {
		return false, errors.New("--emoji and --no-emoji cannot be used together")
	}
	if cli.Emoji {
		return true, nil
	}
	if cli.NoEmoji {
		return false, nil
	}
	if strings.TrimSpace(os.Getenv("NO_EMOJI")) != "" {
		return false, nil
	}
	if strings.ToLower(strings.TrimSpace(os.Getenv("TERM"))) == "dumb" {
		return false, nil
	}
	if file, ok := out.(*os.File); ok {
		return interaction.IsTerminal(file), nil
	}
	return false, nil
}
