// lexmatch finds hierarchical lexicon entries (ministries, departments,
// posts, ...) in free text and reports each match with its full path.
package main

import (
	"os"

	"github.com/corey/lexmatch/cmd/lexmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
