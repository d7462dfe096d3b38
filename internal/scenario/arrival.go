package scenario

import "fmt"

// KindArriveMethod is the kind key of ArriveMethod.
const KindArriveMethod = "arrive_method"

// ArrivalMethod is how the player's colonists reach the map.
type ArrivalMethod uint8

const (
	ArriveStanding ArrivalMethod = iota
	ArriveDropPods
)

// String returns the lowercase method name.
func (m ArrivalMethod) String() string {
	if m == ArriveDropPods {
		return "drop_pods"
	}
	return "standing"
}

// ParseArrivalMethod parses the String form.
func ParseArrivalMethod(s string) (ArrivalMethod, error) {
	switch s {
	case "standing", "":
		return ArriveStanding, nil
	case "drop_pods":
		return ArriveDropPods, nil
	default:
		return ArriveStanding, fmt.Errorf("unknown arrival method %q", s)
	}
}

// ArriveMethod is the scenario part choosing the arrival method.
type ArriveMethod struct {
	Method ArrivalMethod `json:"method"`
}

// Kind implements Part.
func (a *ArriveMethod) Kind() string { return KindArriveMethod }

// Summary implements Part.
func (a *ArriveMethod) Summary() string {
	if a.Method == ArriveDropPods {
		return "The colonists arrive by drop pod."
	}
	return "The colonists start standing near each other."
}

// CanCoexistWith implements Exclusive.
func (a *ArriveMethod) CanCoexistWith(other Part) bool {
	_, same := other.(*ArriveMethod)
	return !same
}
