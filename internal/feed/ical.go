// Package feed renders dated to-do items as an iCalendar feed.
package feed

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/existflow/sheetboard/internal/logger"
	"github.com/existflow/sheetboard/internal/model"
	"github.com/google/uuid"
)

// ProductID identifies the generator in the PRODID property
const ProductID = "-//existflow//sheetboard//KO"

// ContentType is the MIME type of the encoded feed
const ContentType = "text/calendar; charset=utf-8"

// namespace scopes the name-based UIDs of feed events
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/existflow/sheetboard/todo"))

// EventLength is the duration given to timed to-dos
const EventLength = 30 * time.Minute

// UID derives a stable identifier from the item's raw cells, so the same
// row keeps its UID across refreshes even when its position changes.
func UID(item model.TodoItem) string {
	return uuid.NewSHA1(namespace, []byte(item.Date+"\x00"+item.Time+"\x00"+item.Content)).String()
}

// Calendar builds a VCALENDAR with one VEVENT per dated item. Items with a
// parsed time become timed events; the rest are all-day events. Items
// whose date did not parse are skipped.
func Calendar(items []model.TodoItem, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	skipped := 0
	for _, item := range items {
		if item.DateObj == nil {
			skipped++
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, UID(item))
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetText(ical.PropSummary, item.Content)

		if start, ok := item.StartsAt(); ok {
			event.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
			event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(EventLength).UTC())
		} else {
			day := *item.DateObj
			event.Props.SetDate(ical.PropDateTimeStart, day)
			event.Props.SetDate(ical.PropDateTimeEnd, day.AddDate(0, 0, 1))
		}

		cal.Children = append(cal.Children, event.Component)
	}

	if skipped > 0 {
		logger.Debug("Undated to-dos left out of feed", logger.F("count", skipped))
	}
	return cal
}

// Write encodes the feed for items to w
func Write(w io.Writer, items []model.TodoItem, stamp time.Time) error {
	if err := ical.NewEncoder(w).Encode(Calendar(items, stamp)); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}
