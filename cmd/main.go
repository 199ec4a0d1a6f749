package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newsradar-ai/newsradar/cmd/service"
)

func main() {
	root := &cobra.Command{
		Use:   "newsradar",
		Short: "newsradar",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("empty command")
		},
	}

	root.AddCommand(service.NewCommand(), service.NewIngestCommand(), service.NewTokenCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
