package cmd

import (
	"fmt"

	"github.com/corey/lexmatch/internal/adapters/socket"
	"github.com/corey/lexmatch/internal/app"
	"github.com/corey/lexmatch/internal/domain/hierarchy"
	"github.com/spf13/cobra"
)

var expandNoColor bool

var expandCmd = &cobra.Command{
	Use:   "expand <axis> <old> <new> <text>",
	Short: "Try an alias expansion rule against text",
	Long: "Adds a name variant to every node of the axis whose name or alias contains <old>\n" +
		"(with <old> replaced by <new>), then matches <text> against the expanded axis.\n" +
		"The lexicon files are not changed.",
	Example: `  lexmatch expand department "Department of" "Dept. of" "Dept. of Revenue, Ministry of Finance"`,
	Args:    cobra.ExactArgs(4),
	RunE:    runExpand,
}

func init() {
	expandCmd.Flags().BoolVar(&expandNoColor, "no-color", false, "Suppress color output")
}

func runExpand(cmd *cobra.Command, args []string) error {
	axis, from, to, text := args[0], args[1], args[2], args[3]

	set, err := loadLocalSet(hierarchy.PolicyError)
	if err != nil {
		return err
	}
	h, ok := set.Axis(axis)
	if !ok {
		return fmt.Errorf("unknown axis %q (have %v)", axis, set.Axes())
	}

	added := h.ExpandNames(from, to)
	color := resolveColor(expandNoColor)
	fmt.Printf("%s │ %q → %q\n", paint(fmt.Sprintf("⚡ +%d aliases", added), colorBold, color), from, to)

	records, err := app.MatchSet(set, socket.MatchParams{Text: text, Axes: []string{axis}})
	if err != nil {
		return err
	}
	fmt.Print(formatMatch(text, &socket.MatchResult{Records: records, Count: socket.CountRecords(records)}, color))
	return nil
}
