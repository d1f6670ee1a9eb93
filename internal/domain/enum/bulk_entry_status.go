package enum

// BulkEntryStatus represents the lifecycle state of a bulk entry session
type BulkEntryStatus string

const (
	BulkEntryStatusActive    BulkEntryStatus = "active"
	BulkEntryStatusCompleted BulkEntryStatus = "completed"
)

// BulkEntryTerminalPolicy controls what happens when the cursor passes
// the last customer in the list.
type BulkEntryTerminalPolicy string

const (
	// BulkEntryTerminalComplete marks the session completed at the end of the list.
	BulkEntryTerminalComplete BulkEntryTerminalPolicy = "complete"
	// BulkEntryTerminalWrap resets the cursor to the first customer.
	BulkEntryTerminalWrap BulkEntryTerminalPolicy = "wrap"
)
