package stdl

import "encoding/json"

const (
	// FSTypeLocal is the only storage tag this tool reports.
	FSTypeLocal = "local"

	// StatusComplete and StatusCanceled are the statuses the stdl server acts
	// on. Other values are forwarded unchanged.
	StatusComplete = "complete"
	StatusCanceled = "canceled"
)

// Notice is a Completion Notice. A nil field was not supplied by the caller
// and is omitted from the wire body; an empty string is sent as "".
type Notice struct {
	Status  *string
	PType   *string
	UID     *string
	VidName *string
}

type wireNotice struct {
	Status  *string `json:"status,omitempty"`
	PType   *string `json:"ptype,omitempty"`
	UID     *string `json:"uid,omitempty"`
	VidName *string `json:"vidname,omitempty"`
	FSType  string  `json:"fstype"`
}

// NoticeFromArgs maps positional values, in order status, ptype, uid,
// vidname, onto a Notice. Missing positions stay nil; extras are ignored.
func NoticeFromArgs(args []string) Notice {
	var n Notice
	fields := []**string{&n.Status, &n.PType, &n.UID, &n.VidName}
	for i, field := range fields {
		if i >= len(args) {
			break
		}
		value := args[i]
		*field = &value
	}
	return n
}

// FSType reports the storage tag sent with every notice.
func (n Notice) FSType() string {
	return FSTypeLocal
}

// KnownStatus reports whether the status is one the server recognises.
func (n Notice) KnownStatus() bool {
	if n.Status == nil {
		return false
	}
	switch *n.Status {
	case StatusComplete, StatusCanceled:
		return true
	default:
		return false
	}
}

// MarshalJSON encodes the notice with fstype pinned to "local".
func (n Notice) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireNotice{
		Status:  n.Status,
		PType:   n.PType,
		UID:     n.UID,
		VidName: n.VidName,
		FSType:  FSTypeLocal,
	})
}
