// The spikepipe command simulates the spike-delivery pipeline of a
// neuromorphic core.
package main

import "github.com/spinnlab/spikepipe/cmd/spikepipe/cmd"

func main() {
	cmd.Execute()
}
