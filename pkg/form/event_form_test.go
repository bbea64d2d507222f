package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borgmon/agenda/pkg/models"
)

type fakeSaver struct {
	saved []models.CalendarEvent
	err   error
	calls []string
}

func (s *fakeSaver) SaveEvent(_ context.Context, event models.CalendarEvent) error {
	s.calls = append(s.calls, "save")
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, event)
	return nil
}

type fakeCloser struct {
	saver  *fakeSaver
	closed int
}

func (c *fakeCloser) CloseEditModal() {
	c.closed++
	if c.saver != nil {
		c.saver.calls = append(c.saver.calls, "close")
	}
}

type fakeAlerter struct {
	notices []Notice
}

func (a *fakeAlerter) Alert(n Notice) {
	a.notices = append(a.notices, n)
}

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestForm() (*EventForm, *fakeSaver, *fakeCloser, *fakeAlerter) {
	saver := &fakeSaver{}
	closer := &fakeCloser{saver: saver}
	alerter := &fakeAlerter{}
	return NewEventForm(saver, closer, alerter, baseTime), saver, closer, alerter
}

func TestNewEventForm_Defaults(t *testing.T) {
	f, _, _, _ := newTestForm()

	v := f.Values()
	assert.True(t, v.IsDraft())
	assert.Equal(t, "", v.Title)
	assert.Equal(t, "", v.Notes)
	assert.Equal(t, baseTime, v.Start)
	assert.Equal(t, baseTime.Add(2*time.Hour), v.End)
	assert.False(t, f.Submitted())
	assert.False(t, f.TitleInvalid())
}

func TestSubmit_RejectsEndNotAfterStart(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
	}{
		{"end before start", baseTime.Add(-time.Hour)},
		{"end equal to start", baseTime},
		{"less than a second", baseTime.Add(500 * time.Millisecond)},
		{"zero end", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, saver, closer, alerter := newTestForm()
			require.NoError(t, f.SetField(FieldTitle, "Meeting"))
			require.NoError(t, f.SetDateField(FieldEnd, tt.end))

			err := f.Submit(context.Background())

			assert.ErrorIs(t, err, ErrIncorrectDates)
			assert.Empty(t, saver.saved)
			assert.Equal(t, 0, closer.closed)
			assert.Equal(t, []Notice{NoticeIncorrectDates}, alerter.notices)
			assert.True(t, f.Submitted())
		})
	}
}

func TestSubmit_AlertsOncePerAttempt(t *testing.T) {
	f, saver, _, alerter := newTestForm()
	require.NoError(t, f.SetField(FieldTitle, "Meeting"))
	require.NoError(t, f.SetDateField(FieldEnd, baseTime.Add(-time.Hour)))

	for i := 0; i < 3; i++ {
		_ = f.Submit(context.Background())
	}

	assert.Len(t, alerter.notices, 3)
	assert.Empty(t, saver.calls)
}

func TestSubmit_EmptyTitleIsSilent(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		f, saver, closer, alerter := newTestForm()
		require.NoError(t, f.SetField(FieldTitle, title))

		assert.False(t, f.TitleInvalid(), "title must not be flagged before a submit attempt")

		err := f.Submit(context.Background())

		assert.ErrorIs(t, err, ErrEmptyTitle)
		assert.Empty(t, saver.calls)
		assert.Equal(t, 0, closer.closed)
		assert.Empty(t, alerter.notices)
		assert.True(t, f.TitleInvalid())
	}
}

func TestSubmit_DateCheckRunsBeforeTitleCheck(t *testing.T) {
	f, _, _, alerter := newTestForm()
	require.NoError(t, f.SetDateField(FieldEnd, baseTime))

	err := f.Submit(context.Background())

	assert.ErrorIs(t, err, ErrIncorrectDates)
	assert.Len(t, alerter.notices, 1)
}

func TestSubmit_SavesThenClosesThenResetsSubmitted(t *testing.T) {
	f, saver, closer, alerter := newTestForm()
	require.NoError(t, f.SetField(FieldTitle, "Meeting"))
	require.NoError(t, f.SetDateField(FieldEnd, baseTime.Add(time.Hour)))
	want := f.Values()

	err := f.Submit(context.Background())

	require.NoError(t, err)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, want, saver.saved[0])
	assert.Equal(t, []string{"save", "close"}, saver.calls)
	assert.Equal(t, 1, closer.closed)
	assert.Empty(t, alerter.notices)
	assert.False(t, f.Submitted())
	assert.False(t, f.TitleInvalid())
}

func TestSubmit_SaveFailureKeepsDraftAndModal(t *testing.T) {
	f, saver, closer, alerter := newTestForm()
	saver.err = errors.New("disk full")
	require.NoError(t, f.SetField(FieldTitle, "Meeting"))
	before := f.Values()

	err := f.Submit(context.Background())

	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.ErrorIs(t, err, saver.err)
	assert.Equal(t, 0, closer.closed)
	assert.Equal(t, []Notice{NoticeSaveFailed}, alerter.notices)
	assert.True(t, f.Submitted())
	assert.Equal(t, before, f.Values())
}

func TestSetField_OnlyTouchesNamedField(t *testing.T) {
	f, _, _, _ := newTestForm()
	f.LoadActiveEvent(&models.CalendarEvent{
		ID:      "evt-1",
		Title:   "Standup",
		Notes:   "daily",
		Start:   baseTime,
		End:     baseTime.Add(15 * time.Minute),
		BgColor: "#6610f2",
		User:    models.User{ID: "123", Name: "Cesar"},
	})
	before := f.Values()

	require.NoError(t, f.SetField(FieldNotes, "moved to room 4"))
	after := f.Values()
	assert.Equal(t, "moved to room 4", after.Notes)
	after.Notes = before.Notes
	assert.Equal(t, before, after)

	require.NoError(t, f.SetDateField(FieldStart, baseTime.Add(-time.Hour)))
	after = f.Values()
	assert.Equal(t, baseTime.Add(-time.Hour), after.Start)
	after.Start = before.Start
	after.Notes = before.Notes
	assert.Equal(t, before, after)
}

func TestSetField_UnknownName(t *testing.T) {
	f, _, _, _ := newTestForm()
	before := f.Values()

	assert.ErrorIs(t, f.SetField("bgColor", "#000"), ErrUnknownField)
	assert.ErrorIs(t, f.SetDateField("title", baseTime), ErrUnknownField)
	assert.Equal(t, before, f.Values())
}

func TestLoadActiveEvent_SubmitSavesEqualDraft(t *testing.T) {
	f, saver, _, _ := newTestForm()
	active := models.CalendarEvent{
		ID:    "evt-7",
		Title: "Dinner",
		Notes: "Need to go to the restaurant",
		Start: baseTime,
		End:   baseTime.Add(2 * time.Hour),
		User:  models.User{ID: "123", Name: "Cesar"},
	}

	f.LoadActiveEvent(&active)
	require.NoError(t, f.Submit(context.Background()))

	require.Len(t, saver.saved, 1)
	assert.Equal(t, active, saver.saved[0])
}

func TestLoadActiveEvent_CopiesEvent(t *testing.T) {
	f, _, _, _ := newTestForm()
	active := models.CalendarEvent{Title: "Original", Start: baseTime, End: baseTime.Add(time.Hour)}

	f.LoadActiveEvent(&active)
	require.NoError(t, f.SetField(FieldTitle, "Edited"))

	assert.Equal(t, "Original", active.Title)
}

func TestLoadActiveEvent_NilKeepsDraft(t *testing.T) {
	f, _, _, _ := newTestForm()
	require.NoError(t, f.SetField(FieldTitle, "typed"))

	f.LoadActiveEvent(nil)

	assert.Equal(t, "typed", f.Values().Title)
}

func TestScenario_EmptyDraft(t *testing.T) {
	f, saver, _, alerter := newTestForm()
	assert.False(t, f.TitleInvalid())

	_ = f.Submit(context.Background())

	assert.Empty(t, saver.calls)
	assert.Empty(t, alerter.notices)
	assert.True(t, f.TitleInvalid())
}

func TestReset_ClearsSubmitted(t *testing.T) {
	f, _, _, _ := newTestForm()
	_ = f.Submit(context.Background())
	require.True(t, f.Submitted())

	later := baseTime.Add(24 * time.Hour)
	f.Reset(later)

	assert.False(t, f.Submitted())
	assert.Equal(t, later, f.Values().Start)
	assert.Equal(t, later.Add(DefaultDuration), f.Values().End)
}
