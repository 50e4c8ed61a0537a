package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `Tanker fleet coordination service.

Usage:
  fleet [flags]

Flags:
  -config-path string   path to the config yaml file (default "config.yaml")
  -help                 show this message

Configuration is read from the YAML file, overridable per-key through
environment variables (SECTION_KEY form, e.g. DATABASE_HOST).
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
