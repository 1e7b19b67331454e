// Package intake accepts the single PDF attached to a form.
//
// A file arrives by drop or by browsing. Only the first offered file is
// considered and it must report exactly the PDF MIME type; anything else is
// rejected and the current selection is kept.
package intake

import (
	"fmt"
	"io"
)

const PDFMimeType = "application/pdf"

// MsgNotAPdf is shown when a non-PDF file is offered.
const MsgNotAPdf = "Please select a PDF file only"

// PdfAttachment is a validated PDF ready to be sent.
type PdfAttachment struct {
	Name      string
	SizeBytes int64
	MimeType  string
	Raw       []byte
}

// RejectReason says why an offered file was not accepted.
type RejectReason int

const (
	NotAPdf RejectReason = iota + 1
	Unreadable
)

// Rejection is emitted for every refused file.
type Rejection struct {
	FileName string
	Reason   RejectReason
	Message  string
}

// Intake holds the selected attachment and the drag highlight.
// It is not safe for concurrent use; one form owns one Intake.
type Intake struct {
	selected   *PdfAttachment
	dragActive bool
	onReject   func(Rejection)
}

// New returns an empty Intake. onReject may be nil.
func New(onReject func(Rejection)) *Intake {
	return &Intake{onReject: onReject}
}

func (in *Intake) OnDragEnter() { in.dragActive = true }

func (in *Intake) OnDragOver() { in.dragActive = true }

func (in *Intake) OnDragLeave() { in.dragActive = false }

// OnDrop ends the drag and offers files. Drops always clear the highlight.
func (in *Intake) OnDrop(files []Source) bool {
	in.dragActive = false
	return in.offer(files)
}

// OnBrowse offers files picked explicitly.
func (in *Intake) OnBrowse(files []Source) bool {
	return in.offer(files)
}

// offer considers files[0] only; the rest are discarded.
func (in *Intake) offer(files []Source) bool {
	if len(files) == 0 {
		return false
	}
	f := files[0]

	if f.MimeType() != PDFMimeType {
		in.reject(Rejection{FileName: f.Name(), Reason: NotAPdf, Message: MsgNotAPdf})
		return false
	}

	raw, err := readAll(f)
	if err != nil {
		in.reject(Rejection{FileName: f.Name(), Reason: Unreadable, Message: fmt.Sprintf("Could not read %s.", f.Name())})
		return false
	}

	in.selected = &PdfAttachment{
		Name:      f.Name(),
		SizeBytes: int64(len(raw)),
		MimeType:  PDFMimeType,
		Raw:       raw,
	}
	return true
}

func readAll(src Source) ([]byte, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (in *Intake) reject(r Rejection) {
	if in.onReject != nil {
		in.onReject(r)
	}
}

// Remove clears the selection.
func (in *Intake) Remove() { in.selected = nil }

// Selected returns the current attachment, if any.
func (in *Intake) Selected() (PdfAttachment, bool) {
	if in.selected == nil {
		return PdfAttachment{}, false
	}
	return *in.selected, true
}

func (in *Intake) DragActive() bool { return in.dragActive }

// Reset clears both the selection and the highlight.
func (in *Intake) Reset() {
	in.selected = nil
	in.dragActive = false
}
