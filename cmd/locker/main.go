package main

import "github.com/aweris/locker/cmd/locker/cmd"

func main() {
	cmd.Execute()
}
