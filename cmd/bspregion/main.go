// Command bspregion evaluates planar region scripts. It reports the area,
// barycenter and boundary loops of every scene region and can extrude the
// regions into triangle meshes.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
