package main

import "github.com/untangling-bench/lltc4j-export/cmd"

func main() {
	cmd.Execute()
}
