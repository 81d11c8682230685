package main

import "github.com/sumanth428/market-basket-analysis/cmd"

func main() {
	cmd.Execute()
}
