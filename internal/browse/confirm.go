package browse

// DeleteConfirm is the arm/confirm gate in front of destructive user
// deletion. One entity can be armed at a time; confirming anything else is
// a no-op. Document deletion never arms.
type DeleteConfirm struct {
	ArmedID string
}

func (c DeleteConfirm) Arm(id string) DeleteConfirm {
	c.ArmedID = id
	return c
}

// Confirm reports whether id was the armed entity and disarms it if so.
// The caller performs the delete only on true.
func (c DeleteConfirm) Confirm(id string) (DeleteConfirm, bool) {
	if id == "" || c.ArmedID != id {
		return c, false
	}
	c.ArmedID = ""
	return c, true
}

// Cancel disarms id without touching an arm held for a different entity.
func (c DeleteConfirm) Cancel(id string) DeleteConfirm {
	if c.ArmedID == id {
		c.ArmedID = ""
	}
	return c
}

func (c DeleteConfirm) Armed(id string) bool {
	return id != "" && c.ArmedID == id
}

func (c DeleteConfirm) AnyArmed() bool { return c.ArmedID != "" }
