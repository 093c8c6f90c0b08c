package constants

// Ledger read model. Optional filters are appended as AND clauses; name
// filters reach the horse and class through the entry.
const (
	NotificationLogSelect = `
	SELECT n.id, n.source, n.notification_type, n.message, n.payload, n.entry_id, n.created_at
	FROM notification_log n
	LEFT JOIN entries e ON e.id = n.entry_id
	LEFT JOIN horses h ON h.id = e.horse_id
	LEFT JOIN classes c ON c.id = e.class_id
	WHERE n.farm_id = ?`

	NotificationLogOrder = `
	ORDER BY n.created_at DESC, n.id DESC
	LIMIT ? OFFSET ?`
)
