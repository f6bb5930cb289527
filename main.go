package main

import "github.com/frahmantamala/timechronos/cmd"

func main() {
	cmd.Execute()
}
