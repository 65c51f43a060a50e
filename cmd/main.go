package main

import "os"

const appName = "focusring"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
