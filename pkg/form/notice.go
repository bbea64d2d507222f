package form

// Severity mirrors the icon a notice is shown with
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Notice is a fixed message shown in a blocking single-button dialog
type Notice struct {
	Title    string
	Body     string
	Severity Severity
}

var (
	NoticeIncorrectDates = Notice{
		Title:    "Incorrect dates",
		Body:     "Check the dates you entered",
		Severity: SeverityError,
	}
	NoticeSaveFailed = Notice{
		Title:    "Could not save event",
		Body:     "The event was not saved. Your changes are still in the form, try again.",
		Severity: SeverityError,
	}
)
