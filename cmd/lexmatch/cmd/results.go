package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/corey/lexmatch/internal/adapters/socket"
	"github.com/corey/lexmatch/internal/ports"
	"github.com/spf13/cobra"
)

var (
	resultsJSON    bool
	resultsList    bool
	resultsDelete  bool
	resultsNoColor bool
)

var resultsCmd = &cobra.Command{
	Use:   "results [doc]",
	Short: "Show stored match results",
	Long: "Prints the records saved with `lexmatch match --doc <doc>`.\n" +
		"Reads through the daemon when it is running, otherwise opens the result store directly.",
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	f := resultsCmd.Flags()
	f.BoolVar(&resultsJSON, "json", false, "Print records as JSON")
	f.BoolVarP(&resultsList, "list", "l", false, "List stored document ids (no daemon)")
	f.BoolVar(&resultsDelete, "delete", false, "Delete the stored document (no daemon)")
	f.BoolVar(&resultsNoColor, "no-color", false, "Suppress color output")
}

func runResults(cmd *cobra.Command, args []string) error {
	if resultsList {
		return runResultsLocal(func(s ports.ResultStore) error {
			docs, err := s.Documents()
			if err != nil {
				return err
			}
			for _, d := range docs {
				fmt.Println(d)
			}
			return nil
		})
	}
	if len(args) != 1 {
		return fmt.Errorf("document id required")
	}
	docID := args[0]

	if resultsDelete {
		return runResultsLocal(func(s ports.ResultStore) error {
			if err := s.DeleteDocument(docID); err != nil {
				return err
			}
			fmt.Printf("⚡ deleted %s\n", docID)
			return nil
		})
	}

	result, err := fetchResults(docID)
	if err != nil {
		return err
	}
	if resultsJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Print(formatResults(result, resolveColor(resultsNoColor)))
	return nil
}

func fetchResults(docID string) (*socket.ResultsResult, error) {
	root := projectRoot()
	client := socket.NewClient(socket.SocketPath(root))
	if client.Ping() {
		return client.Results(docID)
	}

	var result *socket.ResultsResult
	err := runResultsLocal(func(s ports.ResultStore) error {
		records, err := s.LoadMatches(docID)
		if err != nil {
			return err
		}
		if records == nil {
			return fmt.Errorf("no stored results for %q", docID)
		}
		result = &socket.ResultsResult{DocID: docID, Records: records, Count: socket.CountRecords(records)}
		return nil
	})
	return result, err
}

// runResultsLocal opens the result store in-process for the duration of fn.
// Fails with lock guidance while a daemon holds the store.
func runResultsLocal(fn func(ports.ResultStore) error) error {
	store, err := openLocalStore(projectRoot())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
