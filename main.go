package main

import "github.com/jdhollis/cquota/cmd"

func main() {
	cmd.Execute()
}
