package main

import (
	"github.com/mqudsi/hddrand/internal/cmd"
)

var (
	// set during build
	commit = ""
)

func main() {
	cmd.Execute(commit)
}
