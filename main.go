package main

import "github.com/varlens/varlens-cli/cmd"

func main() {
	cmd.Execute()
}
