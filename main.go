package main

import "github.com/KaramelBytes/autolysis-cli/cmd"

func main() {
	cmd.Execute()
}
