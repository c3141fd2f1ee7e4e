// Command verlet runs and inspects rope simulations built on the verlet
// stepping core.
package main

import "github.com/sarchlab/verlet/verlet/cmd"

func main() {
	cmd.Execute()
}
