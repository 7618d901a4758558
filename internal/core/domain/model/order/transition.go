package order

import (
	"fmt"
	"slices"
)

// ReasonTerminalState prefixes every denial caused by a terminal current status.
const ReasonTerminalState = "terminal state"

// allowedTransitions maps each status to the statuses it may move to, besides itself.
// Terminal statuses map to nothing.
//
//nolint:exhaustive // Unknown has no transitions
var allowedTransitions = map[Status][]Status{
	Pending:        {Confirmed, Cancelled},
	Confirmed:      {Preparing, Cancelled},
	Preparing:      {OutForDelivery, Cancelled},
	OutForDelivery: {Delivered, Cancelled},
	Delivered:      {},
	Cancelled:      {},
}

// Decision is the outcome of ValidateTransition. Denied decisions always carry a Reason
// naming both statuses; allowed same-status requests are flagged NoOp.
type Decision struct {
	Allowed bool
	NoOp    bool
	Reason  string
}

// ValidateTransition decides whether an order in current may move to requested.
//
// Rules:
//   - requested == current is allowed as a no-op, unless current is terminal
//   - the immediate forward step is allowed
//   - Cancelled is allowed from any non-terminal status
//   - everything else, and any Unknown status, is denied
func ValidateTransition(current, requested Status) Decision {
	if current.Validate() != nil || requested.Validate() != nil {
		return denied(fmt.Sprintf("invalid status: cannot change %s to %s", current.Label(), requested.Label()))
	}

	if current.IsTerminal() {
		return denied(fmt.Sprintf("%s: order is %s and cannot change to %s",
			ReasonTerminalState, current.Label(), requested.Label()))
	}

	if current == requested {
		return Decision{Allowed: true, NoOp: true}
	}

	if slices.Contains(allowedTransitions[current], requested) {
		return Decision{Allowed: true}
	}

	return denied(fmt.Sprintf("transition not allowed: %s cannot change to %s", current.Label(), requested.Label()))
}

// AllowedTargets lists, in pipeline order, every status the guard accepts from current,
// current itself included. A status selector enables exactly these options.
func AllowedTargets(current Status) []Status {
	targets := make([]Status, 0, len(AllStatuses()))
	for _, s := range AllStatuses() {
		if ValidateTransition(current, s).Allowed {
			targets = append(targets, s)
		}
	}
	return targets
}

func denied(reason string) Decision {
	return Decision{Reason: reason}
}
