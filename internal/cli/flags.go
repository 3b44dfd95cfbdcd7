package cli

import "flag"

// Flags holds all command line flags
type Flags struct {
	Version   *bool
	Workspace *string
	Config    *string
	Json      *bool
	Verbose   *bool
	NoRemote  *bool
	Debounce  *string
}

// GlobalFlags holds the parsed command line flags
var GlobalFlags *Flags

// InitFlags initializes all command line flags
func InitFlags() *Flags {
	return &Flags{
		Version:   flag.Bool("version", false, "Show version information"),
		Workspace: flag.String("workspace", "", "Path to workspace root (overrides config)"),
		Config:    flag.String("config", "", "Path to machlink.yaml config file"),
		Json:      flag.Bool("json", false, "Output results in JSON format"),
		Verbose:   flag.Bool("verbose", false, "Enable verbose output"),
		NoRemote:  flag.Bool("no-remote", false, "Disable resolution of http(s) imports"),
		Debounce:  flag.String("debounce", "", "Watch debounce interval, e.g. 300ms (overrides config)"),
	}
}

// ParseFlags parses command line flags with custom usage
func ParseFlags(usage func()) {
	if GlobalFlags == nil {
		GlobalFlags = InitFlags()
	}
	flag.Usage = usage
	flag.Parse()
}
