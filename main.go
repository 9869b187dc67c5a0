// Package main is the entry point for the fbmetrics CLI tool, which loads
// football event data and computes player and team metrics.
package main

import "github.com/pable/go-football-metrics/cmd"

func main() {
	cmd.Execute()
}
