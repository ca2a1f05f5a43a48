package main

import "github.com/perfeval/backend/internal/cli"

func main() {
	cli.Execute()
}
