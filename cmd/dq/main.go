package main

import "dayquest/cmd/dq/root"

func main() {
	root.Execute()
}
