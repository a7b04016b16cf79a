// Package bsp implements binary space partition trees and the region
// algebra built on top of them.
//
// A region is the set of points whose leaf cell carries an inside flag.
// Trees are generic over the point type P so the same algorithms serve
// the 1-D interval sets and the planar polygon sets in pkg/geom. The
// dimension-specific packages supply hyperplanes, sub-hyperplanes,
// transforms and the size/barycenter computation.
package bsp
