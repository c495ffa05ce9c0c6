// Package main starts the UnoDoom remote play server.
package main

import "flag"

// main is the entrypoint for the UnoDoom server.
func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	demo := flag.Bool("demo", false, "Feed a generated test pattern instead of engine frames")
	flag.Parse()

	if err := run(*debug, *demo); err != nil {
		logFatal(err)
	}
}
