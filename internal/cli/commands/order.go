package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/machlink/machlink/internal/cli"
)

// OrderCommand prints the workspace modules in dependency order.
func OrderCommand(args []string) {
	loaded := MustLoadWorkspace(context.Background())

	order := loaded.Manager.DocumentsInOrder()
	if order == nil {
		fmt.Fprintln(os.Stderr, "Error: the workspace has circular imports; run `machlink cycles` to see them")
		os.Exit(1)
	}

	if *cli.GlobalFlags.Json {
		out := make([]string, 0, len(order))
		for _, id := range order {
			out = append(out, string(id))
		}
		OutputJSON(map[string]interface{}{"order": out})
		return
	}

	for i, id := range order {
		fmt.Printf("%3d. %s\n", i+1, id)
	}
}
