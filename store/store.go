// Package store connects to the data store and manages activity samples,
// apps, and focus sessions
package store

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/focusflow/flowtrack/internal/models"
	"github.com/focusflow/flowtrack/internal/timeutil"
)

const (
	samplesBucket       = "samples"
	appsBucket          = "apps"
	appNamesBucket      = "app_names"
	rulesBucket         = "rules"
	sessionsBucket      = "sessions"
	sessionEventsBucket = "session_events"
)

var errFlowtrackRunning = errors.New(
	"is flowtrack already running? Only one instance can be active at a time",
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// newID generates a random identifier with the given prefix.
func newID(prefix string) string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)

	return prefix + "-" + hex.EncodeToString(b)
}

func (c *Client) EnsureApp(
	ctx context.Context,
	name, path string,
) (*models.App, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var app models.App

	err := c.Update(func(tx *bolt.Tx) error {
		names := tx.Bucket([]byte(appNamesBucket))
		apps := tx.Bucket([]byte(appsBucket))

		id := names.Get([]byte(name))
		if id != nil {
			if err := json.Unmarshal(apps.Get(id), &app); err != nil {
				return err
			}

			if app.Path == path {
				return nil
			}

			app.Path = path

			value, err := json.Marshal(app)
			if err != nil {
				return err
			}

			return apps.Put(id, value)
		}

		app = models.App{
			ID:   newID("APP"),
			Name: name,
			Path: path,
		}

		value, err := json.Marshal(app)
		if err != nil {
			return err
		}

		if err := apps.Put([]byte(app.ID), value); err != nil {
			return err
		}

		if err := names.Put([]byte(name), []byte(app.ID)); err != nil {
			return err
		}

		rule := models.AppRule{
			AppID:    app.ID,
			Category: models.CategoryOther,
		}

		ruleBytes, err := json.Marshal(rule)
		if err != nil {
			return err
		}

		return tx.Bucket([]byte(rulesBucket)).Put([]byte(app.ID), ruleBytes)
	})
	if err != nil {
		return nil, fmt.Errorf("unable to ensure app %q: %w", name, err)
	}

	return &app, nil
}

func (c *Client) SaveSample(
	ctx context.Context,
	sample *models.ActivitySample,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(sample)
	if err != nil {
		return err
	}

	dayKey := []byte(timeutil.FormatDay(sample.Timestamp))

	return c.Update(func(tx *bolt.Tx) error {
		day, err := tx.Bucket([]byte(samplesBucket)).
			CreateBucketIfNotExists(dayKey)
		if err != nil {
			return err
		}

		return day.Put(timeutil.ToKey(sample.Timestamp), value)
	})
}

// FirstSampleDay returns the earliest day with recorded samples, or the
// zero time when nothing has been recorded yet. Day sub-bucket keys are
// YYYY-MM-DD, so the first cursor key is the earliest day.
func (c *Client) FirstSampleDay(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	var day time.Time

	err := c.View(func(tx *bolt.Tx) error {
		k, _ := tx.Bucket([]byte(samplesBucket)).Cursor().First()
		if k == nil {
			return nil
		}

		parsed, err := timeutil.ParseDay(string(k))
		if err != nil {
			return err
		}

		day = parsed

		return nil
	})
	if err != nil {
		return time.Time{}, err
	}

	return day, nil
}

func (c *Client) SamplesForDay(
	ctx context.Context,
	day time.Time,
) ([]models.SampleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []models.SampleRecord

	err := c.View(func(tx *bolt.Tx) error {
		dayBucket := tx.Bucket([]byte(samplesBucket)).
			Bucket([]byte(timeutil.FormatDay(day)))
		if dayBucket == nil {
			return nil
		}

		apps := tx.Bucket([]byte(appsBucket))
		rules := tx.Bucket([]byte(rulesBucket))

		return dayBucket.ForEach(func(_, v []byte) error {
			var sample models.ActivitySample

			if err := json.Unmarshal(v, &sample); err != nil {
				return err
			}

			record := models.SampleRecord{ActivitySample: sample}

			if sample.AppID != "" {
				if appBytes := apps.Get([]byte(sample.AppID)); appBytes != nil {
					var app models.App
					if err := json.Unmarshal(appBytes, &app); err != nil {
						return err
					}

					record.App = &app
				}

				if ruleBytes := rules.Get([]byte(sample.AppID)); ruleBytes != nil {
					var rule models.AppRule
					if err := json.Unmarshal(ruleBytes, &rule); err != nil {
						return err
					}

					record.Rule = &rule
				}
			}

			records = append(records, record)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// RFC3339Nano keys drop trailing zeros, so key order is not strictly
	// chronological
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	return records, nil
}

func (c *Client) Apps(ctx context.Context) ([]AppListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var listings []AppListing

	err := c.View(func(tx *bolt.Tx) error {
		rules := tx.Bucket([]byte(rulesBucket))

		return tx.Bucket([]byte(appsBucket)).ForEach(func(k, v []byte) error {
			var listing AppListing

			if err := json.Unmarshal(v, &listing.App); err != nil {
				return err
			}

			listing.Rule = models.AppRule{
				AppID:    listing.App.ID,
				Category: models.CategoryUncategorized,
			}

			if ruleBytes := rules.Get(k); ruleBytes != nil {
				if err := json.Unmarshal(ruleBytes, &listing.Rule); err != nil {
					return err
				}
			}

			listings = append(listings, listing)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].App.Name < listings[j].App.Name
	})

	return listings, nil
}

func (c *Client) SetAppCategory(
	ctx context.Context,
	appID string,
	category models.Category,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(appsBucket)).Get([]byte(appID)) == nil {
			return fmt.Errorf("no app with id %q", appID)
		}

		rules := tx.Bucket([]byte(rulesBucket))

		rule := models.AppRule{
			AppID:    appID,
			Category: category,
		}

		if existing := rules.Get([]byte(appID)); existing != nil {
			if err := json.Unmarshal(existing, &rule); err != nil {
				return err
			}

			rule.Category = category
		}

		value, err := json.Marshal(rule)
		if err != nil {
			return err
		}

		return rules.Put([]byte(appID), value)
	})
}

func (c *Client) CreateSession(
	ctx context.Context,
	sess *models.FocusSession,
) error {
	return c.putSession(ctx, sess)
}

func (c *Client) UpdateSession(
	ctx context.Context,
	sess *models.FocusSession,
) error {
	return c.putSession(ctx, sess)
}

func (c *Client) putSession(
	ctx context.Context,
	sess *models.FocusSession,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionsBucket)).Put([]byte(sess.ID), value)
	})
}

func (c *Client) SessionsStartedBetween(
	ctx context.Context,
	start, end time.Time,
) ([]models.FocusSession, error) {
	sessions, err := c.filterSessions(ctx, func(s *models.FocusSession) bool {
		return !s.StartTime.Before(start) && !s.StartTime.After(end)
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartTime.Before(sessions[j].StartTime)
	})

	return sessions, nil
}

func (c *Client) RunningSessions(
	ctx context.Context,
) ([]models.FocusSession, error) {
	return c.filterSessions(ctx, func(s *models.FocusSession) bool {
		return s.Status == models.StatusRunning
	})
}

func (c *Client) filterSessions(
	ctx context.Context,
	keep func(*models.FocusSession) bool,
) ([]models.FocusSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sessions []models.FocusSession

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionsBucket)).
			ForEach(func(_, v []byte) error {
				var sess models.FocusSession

				if err := json.Unmarshal(v, &sess); err != nil {
					return err
				}

				if keep(&sess) {
					sessions = append(sessions, sess)
				}

				return nil
			})
	})
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (c *Client) AppendSessionEvent(
	ctx context.Context,
	event *models.FocusSessionEvent,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionEventsBucket))

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		return b.Put(key, value)
	})
}

func (c *Client) SessionEvents(
	ctx context.Context,
	sessionID string,
) ([]models.FocusSessionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var events []models.FocusSessionEvent

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionEventsBucket)).
			ForEach(func(_, v []byte) error {
				var event models.FocusSessionEvent

				if err := json.Unmarshal(v, &event); err != nil {
					return err
				}

				if event.SessionID == sessionID {
					events = append(events, event)
				}

				return nil
			})
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errFlowtrackRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		buckets := []string{
			samplesBucket,
			appsBucket,
			appNamesBucket,
			rulesBucket,
			sessionsBucket,
			sessionEventsBucket,
		}

		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
