package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bendechrai/devports/internal/validate"
)

// NewReserveCmd creates the reserve command
func NewReserveCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reserve <port>",
		Short: "Block a port from allocation",
		Long: `Reserves a port so the allocator will never issue it, without tying it to
a project or service. Useful for ports owned by tools outside devports.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid port %q", args[0])
			}
			if err := validate.Port(port); err != nil {
				return err
			}

			_, engine, cleanup, err := openEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := engine.Reserve(port, reason); err != nil {
				return err
			}

			fmt.Printf("✅ Reserved port %d", port)
			if reason != "" {
				fmt.Printf(" (%s)", reason)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why the port is reserved")

	return cmd
}

// NewUnreserveCmd creates the unreserve command
func NewUnreserveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unreserve <port>",
		Short: "Remove a port reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid port %q", args[0])
			}
			if err := validate.Port(port); err != nil {
				return err
			}

			_, engine, cleanup, err := openEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			removed, err := engine.Unreserve(port)
			if err != nil {
				return err
			}

			if !removed {
				fmt.Printf("No reservation found for port %d\n", port)
				return nil
			}

			fmt.Printf("✅ Unreserved port %d\n", port)
			return nil
		},
	}
}
