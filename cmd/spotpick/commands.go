package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spotpick/internal/core"
	"spotpick/internal/platform"
	"spotpick/pkg/text"
)

// Action names accepted by search --action, indexed into the fixed order of
// core.ActionResolver.ActionsFor.
var actionIndex = map[string]int{
	"track":    0,
	"album":    1,
	"metadata": 2,
}

var searchCmd = &cobra.Command{
	Use:   "search <term...>",
	Short: "Search the catalog and print or act on the results",
	Long: `Search the catalog once and print the numbered candidates. With --select the
chosen action runs on the Nth candidate instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var playCmd = &cobra.Command{
	Use:   "play <href|link>",
	Short: "Play a catalog href or web player link in the local player",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	searchCmd.Flags().Int("select", 0, "Run an action on the Nth candidate (1-based)")
	searchCmd.Flags().String("action", "track", "Action to run with --select (track, album, metadata)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	term := strings.TrimSpace(strings.Join(args, " "))
	if term == "" {
		return fmt.Errorf("search term is empty")
	}
	selected, _ := cmd.Flags().GetInt("select")
	actionName, _ := cmd.Flags().GetString("action")
	index, ok := actionIndex[strings.ToLower(actionName)]
	if !ok {
		return fmt.Errorf("unknown action %q (want track, album or metadata)", actionName)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	out := cmd.OutOrStdout()
	svcs := initializeServices(platform.NewWriterNotifier(cmd.ErrOrStderr()), core.NewWriterViewer(out))

	return runServices(ctx, svcs, func(ctx context.Context) error {
		candidates, err := svcs.finder.SearchFormatted(ctx, term)
		if err != nil {
			return fmt.Errorf("search %q failed: %w", term, err)
		}

		if selected == 0 {
			printCandidates(out, candidates)
			return nil
		}
		if selected < 0 || selected > len(candidates) {
			return fmt.Errorf("--select %d is out of range, %d candidates found", selected, len(candidates))
		}

		track := candidates[selected-1].Track
		action := svcs.resolver.ActionsFor(track)[index]
		logger.Info("Running action", zap.String("action", action.Description))
		return action.Handler(ctx, track)
	})
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	href := text.NewParser().Href(args[0])
	svcs := initializeServices(platform.NewWriterNotifier(cmd.ErrOrStderr()), core.NewWriterViewer(cmd.OutOrStdout()))

	return runServices(ctx, svcs, func(ctx context.Context) error {
		logger.Info("Playing href", zap.String("href", href))
		svcs.dispatcher.PlayHref(ctx, href)
		return nil
	})
}

// printCandidates lists candidates as a numbered two-line entry each.
func printCandidates(w io.Writer, candidates []core.Candidate) {
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No matches")
		return
	}
	for i, c := range candidates {
		first, second, _ := strings.Cut(c.Label, "\n")
		fmt.Fprintf(w, "%2d. %s\n    %s\n", i+1, first, second)
	}
}
