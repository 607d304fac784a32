package main

import "github.com/chafiq1992/shopify-to-sheets/cmd"

func main() {
	cmd.Execute()
}
