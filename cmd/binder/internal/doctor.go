package internal

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danpf/binder/internal/toolexec"
	"github.com/danpf/binder/internal/tools"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the required external tools are available",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	statuses := tools.Detect(cmd.Context(), toolexec.New())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL\tVERSION\tMINIMUM\tPATH\tSTATUS")
	failed := 0
	for _, s := range statuses {
		state := "ok"
		if !s.Satisfied {
			state = s.Error
			failed++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Tool, s.Version, s.Minimum, s.Path, state)
	}
	w.Flush()

	if failed > 0 {
		return fmt.Errorf("%d tool(s) missing or too old", failed)
	}
	return nil
}
