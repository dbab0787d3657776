package orchestrator

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cruciblehq/barn/internal/build"
)

// Width of the rule printed above rendered results.
const ruleWidth = 60

// Writes a human-readable report of result to w.
func Render(w io.Writer, result *build.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, strings.Repeat("-", ruleWidth))
	fmt.Fprintln(bw, "Build results:")
	fmt.Fprintln(bw, "(not sending build results to server)")
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Client info:")
	for _, field := range result.ClientInfo.Fields() {
		fmt.Fprintf(bw, "  %s: %s\n", field.Key, field.Value)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Build details:")
	for i, step := range result.Steps {
		fmt.Fprintf(bw, "  Step %d: %s\n", i, step.Name)
		fmt.Fprintf(bw, "    name: %s\n", step.Name)
		fmt.Fprintf(bw, "    success: %t\n", step.Success)
		for _, field := range step.Fields {
			fmt.Fprintf(bw, "    %s: %s\n", field.Key, field.Value)
		}
	}

	return bw.Flush()
}
