package main

import "github.com/mcoot/hoyorecord/internal/cli"

func main() {
	cli.Execute()
}
