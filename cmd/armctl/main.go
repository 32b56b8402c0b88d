package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Serve   ServeCommand   `command:"serve" description:"Run the arm controller on the serial link"`
	Setup   SetupCommand   `command:"setup" description:"Scan for the arm and calibrate its position sensors"`
	Console ConsoleCommand `command:"console" alias:"con" description:"Interactive host console with a live joint chart"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "armctl - serial command controller for 6-DOF hobby servo arms"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
