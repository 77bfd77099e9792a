// Package commands implements the banknet command line: one-off API calls
// through the standard plugin chain and a reachability watcher.
package commands
