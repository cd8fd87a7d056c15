package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const envExampleFile = ".env.example"

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Fprintln(cmd.OutOrStdout(), "Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd.Root())

	if err := os.WriteFile(envExampleFile, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", envExampleFile, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Successfully generated .env.example file")
	return nil
}

type envSection struct {
	title string
	flags []string
}

var envSections = []envSection{
	{"Catalog", []string{"catalog-base-url", "catalog-timeout-secs", "catalog-limit"}},
	{"Spotify app credentials (optional)", []string{"spotify-client-id", "spotify-client-secret"}},
	{"Local player", []string{"player-app", "mpris-bus-name", "platform"}},
	{"Interactive search", []string{"min-query-length", "debounce-ms", "cache-size", "cache-ttl-secs"}},
	{"Metrics server", []string{"metrics-enabled", "server-host", "server-port"}},
	{"Logging", []string{"log-level", "log-file"}},
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# spotpick Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	fmt.Fprintf(&content, "# Format: %s_<SETTING>=value\n", envPrefix)
	content.WriteString("# CLI equivalent: --<setting>\n")
	content.WriteString("#\n\n")

	for _, section := range envSections {
		generateEnvSection(&content, cmd, section)
	}

	return content.String()
}

func generateEnvSection(content *strings.Builder, cmd *cobra.Command, section envSection) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	fmt.Fprintf(content, "# %s\n", section.title)
	content.WriteString("# -----------------------------------------------------------------------------\n")

	for _, name := range section.flags {
		f := cmd.PersistentFlags().Lookup(name)
		if f == nil {
			continue
		}
		fmt.Fprintf(content, "# %s\n", f.Usage)
		fmt.Fprintf(content, "%s=%s\n", flagToEnvVar(name), f.DefValue)
	}
	content.WriteString("\n")
}

func flagToEnvVar(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
