package main

import (
	"os"

	"namegen/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
