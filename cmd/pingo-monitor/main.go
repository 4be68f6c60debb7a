package main

import "github.com/oshokin/pingo/cmd/pingo-monitor/cmd"

func main() {
	cmd.Execute()
}
