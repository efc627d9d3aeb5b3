package main

import (
	_ "time/tzdata"

	"github.com/pfrederiksen/activity-scan/internal/cli"
)

func main() {
	cli.Execute()
}
