package main

import "github.com/hallvardm/blogrss/cmd"

func main() {
	cmd.Execute()
}
