package order

// mainPath is the normal progression; any forward step along it is legal.
var mainPath = []Status{StatusPlaced, StatusConfirmed, StatusPreparing, StatusOutForDelivery, StatusDelivered}

func (s Status) Valid() bool {
	switch s {
	case StatusPlaced, StatusConfirmed, StatusPreparing, StatusOutForDelivery,
		StatusDelivered, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusRejected || s == StatusCancelled
}

func rank(s Status) int {
	for i, p := range mainPath {
		if p == s {
			return i
		}
	}
	return -1
}

// CanTransition reports whether an order in from may move to to.
func CanTransition(from, to Status) bool {
	if !to.Valid() || from.Terminal() {
		return false
	}
	if to == StatusRejected || to == StatusCancelled {
		return true
	}
	f, t := rank(from), rank(to)
	return f >= 0 && t > f
}
