// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Delimit is a tool to generate sets of demographic models
// for simulation-based species delimitation.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/delimit/cmd/delimit/generate"
	"github.com/js-arias/delimit/cmd/delimit/list"
	"github.com/js-arias/delimit/cmd/delimit/resample"
	"github.com/js-arias/delimit/cmd/delimit/set"
)

var app = &command.Command{
	Usage: "delimit <command> [<argument>...]",
	Short: "a tool to generate demographic models for species delimitation",
}

func init() {
	app.Add(set.Command)
	app.Add(generate.Command)
	app.Add(list.Command)
	app.Add(resample.Command)
}

func main() {
	app.Main()
}
