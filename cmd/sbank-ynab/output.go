package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/MrJamesThe3rd/sbank-ynab/internal/pipeline"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", successStyle.Render(successSymbol), message)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", errorStyle.Render(errorSymbol), errorStyle.Render(message))
}

func printInfof(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", infoStyle.Render(infoSymbol), fmt.Sprintf(format, args...))
}

func printSummary(w io.Writer, res *pipeline.Result) {
	printInfof(w, "%d transactions parsed, %d new, %d already imported", res.Parsed, res.New, res.Duplicates)

	switch {
	case res.UploadErr != nil:
		printError(w, fmt.Sprintf("upload failed: %v", res.UploadErr))
	case res.Upload == nil || res.Upload.Skipped:
		printInfof(w, "nothing to upload")
	default:
		printSuccess(w, fmt.Sprintf("%d transactions uploaded, %d reported as duplicates",
			len(res.Upload.TransactionIDs), len(res.Upload.DuplicateImportIDs)))
	}

	printSuccess(w, "wrote "+pathStyle.Render(res.OutputPath))
}

// acknowledge blocks until the operator dismisses the failure. It returns at once when stdin is not a terminal.
func acknowledge() {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}

	var ok bool

	err := huh.NewConfirm().
		Title("The run failed. See the log above.").
		Affirmative("Exit").
		Negative("").
		WithButtonAlignment(lipgloss.Left).
		Value(&ok).
		Run()
	if err != nil {
		printError(os.Stderr, fmt.Sprintf("failed to read response: %v", err))
	}
}
