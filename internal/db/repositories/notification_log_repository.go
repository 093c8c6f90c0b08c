package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/models/gorm"

	"github.com/jmoiron/sqlx"
	"gorm.io/datatypes"
	gormlib "gorm.io/gorm"
)

// NotificationLogRepo appends ledger rows. There is no update or delete.
type NotificationLogRepo struct {
	db *gormlib.DB
}

// NewNotificationLogRepo creates a new ledger writer
func NewNotificationLogRepo(db *gormlib.DB) *NotificationLogRepo {
	return &NotificationLogRepo{db: db}
}

// Append writes one ledger row. payload is stored as JSON.
func (r *NotificationLogRepo) Append(
	ctx context.Context,
	farmID string,
	source constants.NotificationSource,
	notificationType constants.NotificationType,
	message string,
	payload interface{},
	entryID *string,
) (*gorm.NotificationLog, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal notification payload: %w", err)
	}

	row := gorm.NotificationLog{
		FarmID:           farmID,
		Source:           string(source),
		NotificationType: string(notificationType),
		Message:          message,
		Payload:          datatypes.JSON(raw),
		EntryID:          entryID,
	}
	if err := r.db.WithContext(ctx).Omit("Farm", "Entry").Create(&row).Error; err != nil {
		return nil, fmt.Errorf("append notification: %w", err)
	}
	return &row, nil
}

// NotificationFilter narrows a ledger read. Zero values mean "no filter".
type NotificationFilter struct {
	Limit     int
	Offset    int
	Source    string
	Type      string
	Date      *time.Time
	HorseName string
	ClassName string
}

// NotificationRow is one ledger row as read back
type NotificationRow struct {
	ID               string         `db:"id" json:"id"`
	Source           string         `db:"source" json:"source"`
	NotificationType string         `db:"notification_type" json:"notification_type"`
	Message          string         `db:"message" json:"message"`
	Payload          datatypes.JSON `db:"payload" json:"payload"`
	EntryID          *string        `db:"entry_id" json:"entry_id"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// NotificationQueryRepo reads the ledger through sqlx
type NotificationQueryRepo struct {
	db *sqlx.DB
}

// NewNotificationQueryRepo creates a new ledger reader
func NewNotificationQueryRepo(db *sqlx.DB) *NotificationQueryRepo {
	return &NotificationQueryRepo{db: db}
}

// QueryRecent returns the farm's ledger rows newest first
func (r *NotificationQueryRepo) QueryRecent(ctx context.Context, farmID string, f NotificationFilter) ([]NotificationRow, error) {
	var sb strings.Builder
	sb.WriteString(constants.NotificationLogSelect)
	args := []interface{}{farmID}

	if f.Source != "" {
		sb.WriteString(" AND n.source = ?")
		args = append(args, f.Source)
	}
	if f.Type != "" {
		sb.WriteString(" AND n.notification_type = ?")
		args = append(args, f.Type)
	}
	if f.Date != nil {
		y, m, d := f.Date.Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		sb.WriteString(" AND n.created_at >= ? AND n.created_at < ?")
		args = append(args, start, start.AddDate(0, 0, 1))
	}
	if f.HorseName != "" {
		sb.WriteString(` AND LOWER(h.name) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f.HorseName))
	}
	if f.ClassName != "" {
		sb.WriteString(` AND LOWER(c.name) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f.ClassName))
	}
	sb.WriteString(constants.NotificationLogOrder)
	args = append(args, f.Limit, f.Offset)

	rows := []NotificationRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(sb.String()), args...); err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	return rows, nil
}

// containsPattern builds a case-insensitive substring LIKE pattern with the
// wildcard characters of the input escaped.
func containsPattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
