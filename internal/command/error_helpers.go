// Where: internal/command/error_helpers.go
// What: Shared CLI error output.
// Why: Keep failure lines consistent across subcommands.
package command

import (
	"fmt"
	"io"

	"github.com/poruru-code/smvllm/internal/infra/ui"
)

// exitWithError prints an error message to the output writer and returns
// exit code 1 for CLI error handling.
func exitWithError(out io.Writer, err error) int {
	ui.NewUI(out, false).Warn(fmt.Sprintf("✗ %v", err))
	return 1
}
