package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/corey/lexmatch/internal/adapters/bbolt"
	"github.com/corey/lexmatch/internal/adapters/socket"
	"github.com/corey/lexmatch/internal/app"
	"github.com/corey/lexmatch/internal/domain/hierarchy"
	"github.com/corey/lexmatch/internal/ports"
	"github.com/spf13/cobra"
)

var (
	matchAxes          []string
	matchCaseSensitive bool
	matchJSON          bool
	matchPolicy        string
	matchDoc           string
	matchSequence      bool
	matchIgnoreChars   string
	matchNoColor       bool
)

var matchCmd = &cobra.Command{
	Use:   "match [text|-]",
	Short: "Find lexicon entries in text",
	Long: "Matches text against every lexicon axis and prints one line per chain.\n" +
		"Reads stdin when text is \"-\" or omitted and stdin is a pipe.\n" +
		"Uses the running daemon when possible; --lexicons or --policy force an in-process match.\n" +
		"Exit status is 0 when something matched, 1 when nothing did, 2 on error.",
	Args:          cobra.MaximumNArgs(1),
	RunE:          runMatch,
	SilenceErrors: true,
}

func init() {
	f := matchCmd.Flags()
	f.StringSliceVarP(&matchAxes, "axis", "a", nil, "Axes to match, in order (default: all)")
	f.BoolVarP(&matchCaseSensitive, "case-sensitive", "s", false, "Match names case-sensitively")
	f.BoolVar(&matchJSON, "json", false, "Print records as JSON")
	f.StringVar(&matchPolicy, "policy", "", "Ambiguous adjoin policy: error, first, longest")
	f.StringVar(&matchDoc, "doc", "", "Store the records under this document id")
	f.BoolVar(&matchSequence, "sequence", false, "Match axes in order, removing text claimed by earlier axes")
	f.StringVar(&matchIgnoreChars, "ignore-chars", "", "Filler characters between adjoining names (default \" (),.;-\")")
	f.BoolVar(&matchNoColor, "no-color", false, "Suppress color output")
}

func runMatch(cmd *cobra.Command, args []string) error {
	text, err := readText(args, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "match: %v\n", err)
		return exitCode{2}
	}

	params := socket.MatchParams{
		Text:          text,
		Axes:          matchAxes,
		Sequence:      matchSequence,
		CaseSensitive: matchCaseSensitive,
		IgnoreChars:   matchIgnoreChars,
		DocID:         matchDoc,
	}

	result, err := executeMatch(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "match: %v\n", err)
		return exitCode{2}
	}

	if matchJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(formatMatch(text, result, resolveColor(matchNoColor)))
	}

	if result.Count == 0 {
		return exitCode{1}
	}
	return nil
}

// readText returns the text argument, or all of stdin for "-" or when no
// argument is given and stdin is a pipe.
func readText(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	if len(args) == 0 && !isStdinPipe() {
		return "", fmt.Errorf("no text given (pass it as an argument or pipe it on stdin)")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// executeMatch asks the daemon when one is running and the request does not
// need different lexicons or policy; otherwise it matches in-process.
func executeMatch(params socket.MatchParams) (*socket.MatchResult, error) {
	root := projectRoot()
	if lexiconDir == "" && matchPolicy == "" {
		client := socket.NewClient(socket.SocketPath(root))
		if client.Ping() {
			return client.Match(params)
		}
	}

	policy := hierarchy.PolicyError
	if matchPolicy != "" {
		p, err := hierarchy.ParsePolicy(matchPolicy)
		if err != nil {
			return nil, err
		}
		policy = p
	}
	set, err := loadLocalSet(policy)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	records, err := app.MatchSet(set, params)
	if err != nil {
		return nil, err
	}
	result := &socket.MatchResult{Records: records, Count: socket.CountRecords(records)}

	if params.DocID != "" {
		if err := saveLocal(root, params.DocID, records); err != nil {
			return nil, err
		}
		result.Saved = true
	}
	result.Elapsed = time.Since(start).String()
	return result, nil
}

// saveLocal writes records straight to the result store.
func saveLocal(root, docID string, records map[string][]ports.MatchRecord) error {
	store, err := openLocalStore(root)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.SaveDocument(docID, records); err != nil {
		return fmt.Errorf("save %s: %w", docID, err)
	}
	return nil
}

// openLocalStore opens .lexmatch/lexmatch.db, turning a lock timeout into
// guidance about who holds the lock.
func openLocalStore(root string) (*bbolt.Store, error) {
	paths := app.NewPaths(root)
	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}
	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%s", diagnoseDBLock(root))
		}
		return nil, err
	}
	return store, nil
}
