package cmd

import (
	"fmt"

	"github.com/corey/lexmatch/internal/app"
	"github.com/corey/lexmatch/internal/domain/hierarchy"
	"github.com/spf13/cobra"
)

var (
	treeSummary bool
	treeNoColor bool
)

var treeCmd = &cobra.Command{
	Use:   "tree [axis]",
	Short: "Show lexicon hierarchies",
	Long:  "Prints each axis as a tree with levels and aliases (after expand_names). No daemon required.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().BoolVar(&treeSummary, "summary", false, "One line per axis instead of full trees")
	treeCmd.Flags().BoolVar(&treeNoColor, "no-color", false, "Suppress color output")
}

func runTree(cmd *cobra.Command, args []string) error {
	set, err := loadLocalSet(hierarchy.PolicyError)
	if err != nil {
		return err
	}
	color := resolveColor(treeNoColor)

	if treeSummary {
		fmt.Print(formatAxes(app.AxisInfos(set), color))
		return nil
	}

	axes := set.Axes()
	if len(args) == 1 {
		axes = []string{args[0]}
	}
	for i, axis := range axes {
		h, ok := set.Axis(axis)
		if !ok {
			return fmt.Errorf("unknown axis %q (have %v)", axis, set.Axes())
		}
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(paint("# "+axis, colorMagenta, color))
		fmt.Print(formatTree(h, color))
	}
	return nil
}
