package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opal-ir/opal/internal/opcount"
	"github.com/opal-ir/opal/internal/pass"
)

// PassInfo is the JSON payload describing one registered pass.
type PassInfo struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Version    string `json:"version"`
	APIVersion int    `json:"api_version"`
}

// NewPassesCommand creates the passes command.
func NewPassesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passes",
		Short: "List registered analysis passes",
		Long: `List the analysis passes registered with this binary.

Identifiers listed here are valid elements of a --passes pipeline.

Example:
  opal passes
  opal run demo.cue --passes ` + opcount.Name,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPasses(rootOpts, cmd)
		},
	}

	return cmd
}

func listPasses(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	registry := pass.DefaultRegistry()
	names := registry.Names()

	infos := make([]PassInfo, 0, len(names))
	for _, name := range names {
		info, ok := registry.Info(name)
		if !ok {
			continue
		}
		infos = append(infos, PassInfo{
			Identifier: name,
			Name:       info.Name,
			Version:    info.Version,
			APIVersion: info.APIVersion,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(formatter.Writer, "No passes registered.")
		return nil
	}

	fmt.Fprintf(formatter.Writer, "Registered passes (%d):\n", len(infos))
	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "  %s: %s v%s (API v%d)\n",
			info.Identifier, info.Name, info.Version, info.APIVersion)
	}

	return nil
}
