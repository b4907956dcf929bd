package domain

import "errors"

var (
	ErrServiceInactive     = errors.New("service_inactive")
	ErrServiceNameTaken    = errors.New("service_name_taken")
	ErrStaffNotFound       = errors.New("staff_not_found")
	ErrStaffInactive       = errors.New("staff_inactive")
	ErrStaffSkillMismatch  = errors.New("staff_skill_mismatch")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrInvalidDuration     = errors.New("invalid_duration")
	ErrInvalidWeekday      = errors.New("invalid_weekday")
	ErrInvalidWorkingHours = errors.New("invalid_working_hours")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidDate         = errors.New("invalid_date")
	ErrOptionNotFound      = errors.New("option_not_found")
	ErrHolidayNotFound     = errors.New("holiday_not_found")
)
