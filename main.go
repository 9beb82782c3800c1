package main

import (
	"context"

	"sntrack/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
