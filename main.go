package main

import "github.com/bargainbaas/bargain-cli/cmd"

func main() {
	cmd.Execute()
}
