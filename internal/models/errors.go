package models

import "fmt"

// InputError reports an upload that cannot be validated: unreadable
// workbook, no sheet, no header or missing required columns.
type InputError struct {
	Message string
	Err     error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ExportError reports a failure while producing the error workbook
type ExportError struct {
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export error report: %v", e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
