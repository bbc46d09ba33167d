package main

import "github.com/logveil/logveil/cmd/logveil"

func main() { logveil.Execute() }
