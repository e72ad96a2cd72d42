package main

import "github.com/peekknuf/govdataqa/cmd"

func main() {
	cmd.Execute()
}
