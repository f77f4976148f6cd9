package decoder

import "errors"

// ErrDecodeFailed is returned when a location reference cannot be matched
// onto the target map: an LRP has no admissible candidates, or no
// assembly of candidate pairs satisfies the FRC, bearing, score and
// length constraints end to end. Wrapped errors carry the reason.
var ErrDecodeFailed = errors.New("decoding failed")
