package repository

import (
	"fmt"
	"time"

	"github.com/locvowork/taskboard/internal/domain"
)

// SQLite hands timestamps back as text in whichever layout wrote them.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// nullTime scans both lib/pq time.Time values and SQLite text timestamps.
type nullTime struct {
	Time  time.Time
	Valid bool
}

func (n *nullTime) Scan(v interface{}) error {
	switch x := v.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = x, true
		return nil
	case string:
		return n.parse(x)
	case []byte:
		return n.parse(string(x))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", v)
	}
}

func (n *nullTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = t, true
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func (n nullTime) ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

type scanner interface {
	Scan(dest ...interface{}) error
}

const collectionColumns = "id, user_id, name, color, created_at"

func scanCollection(s scanner) (*domain.Collection, error) {
	var (
		c       domain.Collection
		color   string
		created nullTime
	)
	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &color, &created); err != nil {
		return nil, err
	}
	c.Color = domain.CollectionColor(color)
	c.CreatedAt = created.Time
	return &c, nil
}

const taskColumns = "id, user_id, collection_id, content, expires_at, done, created_at"

func scanTask(s scanner) (*domain.Task, error) {
	var (
		t       domain.Task
		expires nullTime
		created nullTime
	)
	if err := s.Scan(&t.ID, &t.UserID, &t.CollectionID, &t.Content, &expires, &t.Done, &created); err != nil {
		return nil, err
	}
	t.ExpiresAt = expires.ptr()
	t.CreatedAt = created.Time
	return &t, nil
}
