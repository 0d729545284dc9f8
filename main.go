package main

import (
	"github.com/taoky/rawtty/cmd"
	"github.com/taoky/rawtty/pkg/exithook"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		exithook.Exit(1)
	}
	exithook.Run()
}
