package main

import "github.com/investor-agent/investor-mcp/cmd"

func main() {
	cmd.Execute()
}
