package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/machlink/machlink/internal/cli"
)

// CyclesCommand detects and prints circular import chains.
func CyclesCommand(args []string) {
	loaded := MustLoadWorkspace(context.Background())

	cycles := loaded.Manager.DetectCycles()

	if *cli.GlobalFlags.Json {
		out := make([][]string, 0, len(cycles))
		for _, cycle := range cycles {
			walk := make([]string, 0, len(cycle))
			for _, id := range cycle {
				walk = append(walk, string(id))
			}
			out = append(out, walk)
		}
		OutputJSON(map[string]interface{}{"cycles": out})
		if len(cycles) > 0 {
			os.Exit(1)
		}
		return
	}

	if len(cycles) == 0 {
		fmt.Println("No circular imports found")
		return
	}

	fmt.Printf("Found %d circular import chain(s):\n", len(cycles))
	for i, cycle := range cycles {
		fmt.Printf("  %d. ", i+1)
		for j, id := range cycle {
			if j > 0 {
				fmt.Print(" -> ")
			}
			fmt.Print(id.Base())
		}
		fmt.Println()
	}
	os.Exit(1)
}
