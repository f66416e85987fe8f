package main

import (
	"fmt"
	"os"

	"github.com/magefree/realms-server-go/cmd/realmsctl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
