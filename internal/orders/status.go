package orders

import "github.com/tiffinbox/backend/pkg/enums"

// allowedTransitions is the enforced lifecycle. Any non-terminal status may
// be cancelled; forward movement follows the kitchen flow.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPlaced: {
		enums.OrderStatusConfirmed,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusConfirmed: {
		enums.OrderStatusPreparing,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusPreparing: {
		enums.OrderStatusOutForDelivery,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusOutForDelivery: {
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	},
}

// canTransition reports whether the lifecycle permits moving from one
// status to another.
func canTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
