package main

import "github.com/terraconstructs/credentials/cmd/credsctl/cmd"

func main() {
	cmd.Execute()
}
