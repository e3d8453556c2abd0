package main

import "label-matcher/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
