// crudsync CLI - drives declaratively defined entity stores against a REST API
package main

import "github.com/getmockd/crudsync/pkg/cli"

func main() {
	cli.Execute()
}
