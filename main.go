package main

import "datajoin/cmd"

func main() {
	cmd.Execute()
}
