package main

import "yoga/cli"

func main() {
	cli.Execute()
}
