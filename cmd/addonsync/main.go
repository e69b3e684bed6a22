package main

import "github.com/pehjota/addonsync/cmd/addonsync/cmd"

func main() {
	cmd.Execute()
}
