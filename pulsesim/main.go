// Command pulsesim simulates pulse networks and predicts when their sinks
// receive a low pulse.
package main

import "github.com/sarchlab/pulsesim/pulsesim/cmd"

func main() {
	cmd.Execute()
}
