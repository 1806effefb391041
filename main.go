// Package main is the entry point for the warehouse-charts CLI.
// It renders the fixed set of warehouse KPI charts from the analytics warehouse.
package main

import (
	"warehousecharts/cli/cmd"
)

func main() {
	cmd.Execute()
}
