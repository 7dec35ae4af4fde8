package main

import "github.com/cmmoran/nativizer/cmd"

func main() {
	cmd.Execute()
}
