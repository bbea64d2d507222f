package store

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"github.com/borgmon/agenda/pkg/calendar"
	"github.com/borgmon/agenda/pkg/models"
)

// EventsFileName is the file local events are kept in, under the app storage root
const EventsFileName = "events.ics"

// FilePersister stores local events as an iCalendar file
type FilePersister struct {
	uri fyne.URI
}

// NewFilePersister stores events in name under root
func NewFilePersister(root fyne.URI, name string) (*FilePersister, error) {
	uri, err := storage.Child(root, name)
	if err != nil {
		return nil, fmt.Errorf("invalid events location: %w", err)
	}
	return &FilePersister{uri: uri}, nil
}

// URI returns where events are stored
func (p *FilePersister) URI() fyne.URI {
	return p.uri
}

func (p *FilePersister) LoadEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exists, err := storage.Exists(p.uri)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []models.CalendarEvent{}, nil
	}

	reader, err := storage.Reader(p.uri)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return calendar.DecodeEvents(reader)
}

func (p *FilePersister) SaveEvents(ctx context.Context, events []models.CalendarEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	writer, err := storage.Writer(p.uri)
	if err != nil {
		return err
	}

	if err := calendar.EncodeEvents(writer, events); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}
