package main

import (
	"os"

	"github.com/spf13/cobra"
)

var VERSION = "1.0.0"

func main() {
	c := &cobra.Command{
		Use:     "navgrid",
		Short:   "terrain navigation grid toolkit",
		Version: VERSION,
	}
	c.AddCommand(GenCmd())
	c.AddCommand(QueryCmd())
	c.AddCommand(ServeCmd())
	err := c.Execute()
	if err != nil {
		os.Exit(1)
	}
}
