package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show port usage per configured type",
		Long: `Shows, for each configured type, how many ports are used, how many remain
and the next free port. "Next" is computed from the registry alone, without
probing, so a port another process grabbed outside devports may still show
as next.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, engine, cleanup, err := openEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			statuses, err := engine.Status()
			if err != nil {
				return err
			}

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			fmt.Println("Port Ranges")
			fmt.Println("===========")
			fmt.Println()

			for _, st := range statuses {
				fmt.Printf("%s (%d-%d)\n", st.Type, st.Range.Start, st.Range.End)
				fmt.Printf("  Used:      %d\n", st.Used)

				availStr := green(fmt.Sprintf("%d", st.Available))
				if st.Available == 0 {
					availStr = red("0")
				} else if st.Available <= st.Range.Size()/10 {
					availStr = yellow(fmt.Sprintf("%d", st.Available))
				}
				fmt.Printf("  Available: %s\n", availStr)

				if st.Next > 0 {
					fmt.Printf("  Next:      %d\n", st.Next)
				} else {
					fmt.Printf("  Next:      %s\n", red("range full"))
				}
				fmt.Println()
			}

			snap, err := engine.Snapshot()
			if err != nil {
				return err
			}
			if len(snap.Reservations) > 0 {
				fmt.Println("Reservations")
				fmt.Println("============")
				for _, r := range snap.Reservations {
					if r.Reason != "" {
						fmt.Printf("  %d  %s\n", r.Port, r.Reason)
					} else {
						fmt.Printf("  %d\n", r.Port)
					}
				}
			}

			return nil
		},
	}
}
