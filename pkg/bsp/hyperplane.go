package bsp

// Hyperplane is an oriented hyperplane of the space of P. Points with a
// positive offset lie on its plus side.
type Hyperplane[P any] interface {
	// Offset returns the signed distance of p to the hyperplane.
	Offset(p P) float64
	// SameOrientationAs reports whether both hyperplanes have the same
	// plus side. Only meaningful for parallel hyperplanes.
	SameOrientationAs(other Hyperplane[P]) bool
	// WholeHyperplane returns a sub-hyperplane covering the whole hyperplane.
	WholeHyperplane() SubHyperplane[P]
	// WholeSpace returns a region covering the whole space.
	WholeSpace() *Region[P]
	CopySelf() Hyperplane[P]
}

// SubHyperplane is a part of a hyperplane, typically described by a
// region of the hyperplane's own sub-space.
type SubHyperplane[P any] interface {
	Hyperplane() Hyperplane[P]
	CopySelf() SubHyperplane[P]
	IsEmpty() bool
	Size() float64
	// Side classifies the sub-hyperplane relative to h.
	Side(h Hyperplane[P]) Side
	// Split returns the parts lying on the plus and minus sides of h.
	// A nil part means nothing lies on that side. Both parts are nil when
	// the sub-hyperplane lies on h.
	Split(h Hyperplane[P]) (plus, minus SubHyperplane[P])
	// Reunite returns the union of two sub-hyperplanes sharing a hyperplane.
	Reunite(other SubHyperplane[P]) SubHyperplane[P]
}

// Transform maps points and sub-hyperplanes of the space of P.
type Transform[P any] interface {
	Apply(p P) P
	ApplySub(sub SubHyperplane[P]) SubHyperplane[P]
}

// Geometry computes the dimension-specific properties of a region.
type Geometry[P any] interface {
	Properties(r *Region[P]) (size float64, barycenter P)
}
