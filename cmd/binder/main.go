package main

import "github.com/danpf/binder/cmd/binder/internal"

func main() {
	internal.Execute()
}
