package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rivo/tview"
)

// Confirm asks the user to approve a destructive action. A terminal gets a
// modal dialog; anything else falls back to a yes/no line prompt.
func Confirm(prompt string) (bool, error) {
	if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		return confirmModal(prompt)
	}
	return PromptConfirm(os.Stdin, os.Stdout, prompt)
}

// PromptConfirm writes prompt to out and reads one answer from in. Only
// "yes" (any case) approves.
func PromptConfirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	color.New(color.FgYellow).Fprintf(out, "%s (yes/no): ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes"), nil
}

func confirmModal(prompt string) (bool, error) {
	app := tview.NewApplication()
	approved := false
	modal := tview.NewModal().
		SetText(prompt).
		AddButtons([]string{"No", "Yes"}).
		SetDoneFunc(func(_ int, label string) {
			approved = label == "Yes"
			app.Stop()
		})
	if err := app.SetRoot(modal, false).SetFocus(modal).Run(); err != nil {
		return false, fmt.Errorf("failed to run TUI: %w", err)
	}
	return approved, nil
}
