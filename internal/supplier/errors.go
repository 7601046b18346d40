package supplier

import "errors"

// ErrResponseShape marks an upstream payload that does not match the
// shape expected for the supplier. Strategies wrap it with detail; the
// aggregator treats it as "this supplier produced nothing".
var ErrResponseShape = errors.New("unexpected response shape")
