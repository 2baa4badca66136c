package main

import "github.com/keurnel/rvdecode/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
