package main

import (
	"os"

	"github.com/dbsmedya/tabconv/cmd/tabconv/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
