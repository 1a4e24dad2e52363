// Package main provides the notetaker command-line tool for exporting notes
// without running the server.
package main

func main() {
	Execute()
}
