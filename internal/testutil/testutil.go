// Package testutil provides sample fixtures shared by the timeline and
// stats tests.
package testutil

import (
	"time"

	"github.com/focusflow/flowtrack/internal/models"
)

// AppFixture builds an app and its rule with the given category.
func AppFixture(
	id, name string,
	category models.Category,
) (*models.App, *models.AppRule) {
	return &models.App{ID: id, Name: name},
		&models.AppRule{AppID: id, Category: category}
}

// ActiveSample builds a joined ACTIVE sample record. App and rule may be
// nil to model samples whose app row is missing.
func ActiveSample(
	app *models.App,
	rule *models.AppRule,
	at time.Time,
) models.SampleRecord {
	rec := models.SampleRecord{
		ActivitySample: models.ActivitySample{
			Timestamp: at,
			EventType: models.EventActive,
		},
		App:  app,
		Rule: rule,
	}

	if app != nil {
		rec.AppID = app.ID
	}

	return rec
}

// IdleSample builds an IDLE sample record, which never carries an app.
func IdleSample(at time.Time) models.SampleRecord {
	return models.SampleRecord{
		ActivitySample: models.ActivitySample{
			Timestamp: at,
			EventType: models.EventIdle,
		},
	}
}
