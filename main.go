package main

import "content-transfer/cmd"

func main() {
	cmd.Execute()
}
