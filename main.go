package main

import "contest-sync/cmd"

func main() {
	defer cmd.Recover()
	cmd.Execute()
}
