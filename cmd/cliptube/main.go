package main

import "github.com/cliptube/cliptube/pkg/cli"

func main() {
	cli.Execute(cli.NewRootCommand())
}
