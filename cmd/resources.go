package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Inspect resources referenced by an input document",
}

var resourcesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the resource IDs referenced by the tasks in an input document",
	RunE:  runResourcesLs,
}

func init() {
	resourcesLsCmd.Flags().StringVarP(&planInputPath, "input", "i", "-", "input document path, - for stdin")
	resourcesCmd.AddCommand(resourcesLsCmd)
}

func runResourcesLs(cmd *cobra.Command, args []string) error {
	in, err := readPlanInput(planInputPath)
	if err != nil {
		return err
	}

	seen := make(map[int]int) // resource id -> task count
	for _, t := range in.Tasks {
		seen[t.UserID]++
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := cmd.OutOrStdout()
	for _, id := range ids {
		fmt.Fprintf(out, "%d\t%d task(s)\n", id, seen[id])
	}
	if len(ids) == 0 {
		fmt.Fprintln(out, "no resources found")
	}
	return nil
}
