package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-frogger/internal/link"
)

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "List link drivers",
	Long:  `Shows the link drivers "frogger play --driver" accepts.`,
	Args:  cobra.NoArgs,
	Run:   runDrivers,
}

func runDrivers(_ *cobra.Command, _ []string) {
	drivers := link.Drivers()

	fmt.Println("Available drivers:")
	fmt.Println()

	maxLen := 4 // "Name" header
	for _, d := range drivers {
		maxLen = max(maxLen, len(d.Name))
	}

	fmt.Printf("  %-*s  %s\n", maxLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxLen, "----", "-----------")
	for _, d := range drivers {
		fmt.Printf("  %-*s  %s\n", maxLen, d.Name, d.Description)
	}

	fmt.Println()
	fmt.Println("Run 'frogger play --driver <name>' to use one.")
}
