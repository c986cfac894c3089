package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/calbreak/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in calendar layouts",
	Long:  `Shows every calendar layout registered with calbreak.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	layouts := registry.List()

	if len(layouts) == 0 {
		fmt.Println("No layouts available.")
		return
	}

	fmt.Println("Available layouts:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, l := range layouts {
		if len(l.ID) > maxIDLen {
			maxIDLen = len(l.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")

	for _, l := range layouts {
		desc := l.Description
		if desc == "" {
			desc = l.Title
		}
		fmt.Printf("  %-*s  %s\n", maxIDLen, l.ID, desc)
	}

	fmt.Println()
	fmt.Println("Run 'calbreak play <id>' to play a layout, or pass a .yaml/.toml page file.")
}
