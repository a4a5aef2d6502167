package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tasnim.dev/s3-dupes/cmd"
	"tasnim.dev/s3-dupes/internal/constants"
)

func main() {
	if os.Getenv(constants.LambdaFunctionNameEnv) != "" {
		if err := cmd.RunLambda(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	rootCmd := &cobra.Command{
		Use:          "s3-dupes",
		Short:        "Find likely duplicate objects in an S3 bucket",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.NewScanCmd())
	rootCmd.AddCommand(cmd.NewLambdaCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
