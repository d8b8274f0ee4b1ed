package workflow

import "errors"

// ชุด error ของ engine — handler แปลงเป็น HTTP status เอง
// มีแค่ ErrStoreUnavailable เท่านั้นที่ retry ได้ ที่เหลือจบที่ call นั้น
var (
	ErrNotFound            = errors.New("duty leave request not found")
	ErrForbidden           = errors.New("actor is not eligible for this stage")
	ErrInvalidState        = errors.New("stage already decided or not yet reachable")
	ErrInvalidArgument     = errors.New("invalid decision value or missing required fields")
	ErrPrerequisiteMissing = errors.New("student has no advisor assigned")
	ErrStoreUnavailable    = errors.New("store unavailable")
)
