package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		printFail(err)
		os.Exit(1)
	}
}
