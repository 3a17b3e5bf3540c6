package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/n1jfu/qrz/internal/lookup"
	"github.com/n1jfu/qrz/internal/zipcode"
)

var opts struct {
	Lookup  lookup.Command  `command:"lookup" alias:"call" description:"look up a single callsign on QRZ.com and display its profile"`
	ZipCode zipcode.Command `command:"zipcode" alias:"zip" description:"find operators registered in a zip code and rank them by QRZ profile views"`
}

func main() {
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil && !flags.WroteHelp(err) {
		os.Exit(1)
	}
}
