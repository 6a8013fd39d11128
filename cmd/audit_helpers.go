package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kurtosis-tech/stacktrace"
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return stacktrace.Propagate(err, "failed to encode result as JSON")
	}
	fmt.Println(string(data))
	return nil
}

// writeAnalysisJSON renders an analysis result as indented JSON, either to
// stdout or to the given file. File writes get a confirmation on stderr so
// stdout stays clean for piping.
func writeAnalysisJSON(result any, outputFilepath string) error {
	if outputFilepath == "" {
		return printJSON(result)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return stacktrace.Propagate(err, "failed to encode result as JSON")
	}
	if err := os.WriteFile(outputFilepath, append(data, '\n'), 0644); err != nil {
		return stacktrace.Propagate(err, "failed to write '%s'", outputFilepath)
	}
	fmt.Fprintf(os.Stderr, "Analysis saved to %s\n", outputFilepath)
	return nil
}
