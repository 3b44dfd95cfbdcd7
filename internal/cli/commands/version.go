package commands

import (
	"fmt"

	"github.com/machlink/machlink/internal/cli"
)

// VersionCommand handles the version command
func VersionCommand(args []string) {
	fmt.Printf("machlink version %s\n", cli.Version)
}
