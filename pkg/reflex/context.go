package reflex

import "github.com/vango-dev/reflex/pkg/vango"

// ProducerContext carries the store published by the nearest Provider.
// It has no default: reading it outside a Provider reports "not found".
var ProducerContext = vango.CreateContext[any](nil)
