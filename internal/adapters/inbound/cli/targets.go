package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abdidvp/repoprobe/internal/adapters/outbound/tui"
	"github.com/abdidvp/repoprobe/internal/domain"
)

type targetSet struct {
	Files    []string `json:"files"`
	Suffixes []string `json:"suffixes"`
	SkipDirs []string `json:"skip_dirs"`
}

func currentTargets() targetSet {
	skip := make([]string, 0, len(domain.SkipDirs))
	for d := range domain.SkipDirs {
		skip = append(skip, d)
	}
	sort.Strings(skip)
	return targetSet{Files: domain.TargetFiles, Suffixes: domain.TargetSuffixes, SkipDirs: skip}
}

func newTargetsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List the file names repoprobe looks for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := currentTargets()
			if jsonOutput {
				return renderJSON(cmd, t)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderTargets(t.Files, t.Suffixes, t.SkipDirs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
