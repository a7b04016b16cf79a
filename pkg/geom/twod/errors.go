package twod

import "github.com/pkg/errors"

// ErrNonInvertibleTransform reports an affine transform whose linear part
// is singular.
var ErrNonInvertibleTransform = errors.New("twod: non-invertible transform")
