package main

import "code-analyzer/src/handler/cli"

func main() {
	cli.Run()
}
