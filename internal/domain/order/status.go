package order

// Status is the shared lifecycle vocabulary for orders and order items. The
// two track it independently; the reducer below only ever reads the item
// subset {pending, in_progress, completed, cancelled}.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusPreparing  Status = "preparing"
	StatusReady      Status = "ready"
	StatusServed     Status = "served"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusPreparing,
		StatusReady, StatusServed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ReduceStatus derives an order's aggregate status from its items' statuses.
// Rules apply in precedence order, first match wins:
//
//  1. all items completed            -> completed
//  2. any item in_progress           -> in_progress
//  3. any item pending               -> pending
//  4. all items cancelled (n >= 1)   -> cancelled
//
// When no rule fires (e.g. a mix of completed and cancelled only) ok is
// false and the caller must leave the stored status unchanged.
func ReduceStatus(statuses []Status) (derived Status, ok bool) {
	if len(statuses) == 0 {
		return "", false
	}

	allCompleted, allCancelled := true, true
	anyInProgress, anyPending := false, false
	for _, s := range statuses {
		if s != StatusCompleted {
			allCompleted = false
		}
		if s != StatusCancelled {
			allCancelled = false
		}
		if s == StatusInProgress {
			anyInProgress = true
		}
		if s == StatusPending {
			anyPending = true
		}
	}

	switch {
	case allCompleted:
		return StatusCompleted, true
	case anyInProgress:
		return StatusInProgress, true
	case anyPending:
		return StatusPending, true
	case allCancelled:
		return StatusCancelled, true
	}
	return "", false
}
