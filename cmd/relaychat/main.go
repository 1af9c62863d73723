package main

import "github.com/relaychat/relaychat/internal/cli"

func main() {
	cli.Execute()
}
