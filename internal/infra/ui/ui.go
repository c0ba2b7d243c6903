// Where: internal/infra/ui/ui.go
// What: UserInterface abstraction used by the usecases.
// Why: Usecases print through one surface so tests can capture output.
package ui

import (
	"fmt"
	"io"
)

// KeyValue is a key/value pair rendered inside a block.
type KeyValue struct {
	Key   string
	Value any
}

// UserInterface exposes high-level output helpers used by usecases.
type UserInterface interface {
	Info(msg string)
	Warn(msg string)
	Success(msg string)
	Block(emoji, title string, rows []KeyValue)
	Env(title string, values map[string]string)
	Command(title string, argv []string)
}

// NewUI returns a UserInterface writing to out.
func NewUI(out io.Writer, emojiEnabled bool) UserInterface {
	return consoleUI{
		out:     out,
		console: NewWithEmoji(out, emojiEnabled),
	}
}

type consoleUI struct {
	out     io.Writer
	console *Console
}

func (c consoleUI) Info(msg string) {
	fmt.Fprintln(c.out, msg)
}

func (c consoleUI) Warn(msg string) {
	c.console.Warn(msg)
}

func (c consoleUI) Success(msg string) {
	c.console.Success(msg)
}

func (c consoleUI) Block(emoji, title string, rows []KeyValue) {
	c.console.BlockStart(emoji, title)
	for _, kv := range rows {
		c.console.Item(kv.Key, kv.Value)
	}
	c.console.BlockEnd()
}

func (c consoleUI) Env(title string, values map[string]string) {
	c.console.BlockStart("🧩", title)
	c.console.Map(values)
	c.console.BlockEnd()
}

func (c consoleUI) Command(title string, argv []string) {
	c.console.BlockStart("🔍", title)
	c.console.Command(argv)
	c.console.BlockEnd()
}
