package errorz

import "errors"

var (
	ConfigurationMissing = errors.New("required channel or role id is not configured")
	ChannelNotFound      = errors.New("channel not found")
	RoleNotFound         = errors.New("role not found")
	StoreUnavailable     = errors.New("attendance store unavailable")
	NoAttendanceData     = errors.New("no attendance data found")
)
