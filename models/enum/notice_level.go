package enum

// NoticeLevel is the severity of a message shown to the shopper.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)
