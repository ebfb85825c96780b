package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/composer/cmd/composer"
	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := composer.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		for _, line := range composer.ErrorDetails(err) {
			fmt.Fprintln(os.Stderr, detailStyle.Render("  "+line))
		}
		os.Exit(composer.ExitCode(err))
	}
}
