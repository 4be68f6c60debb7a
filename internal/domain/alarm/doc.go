// Package alarm contains the core domain types of PinGo.
//
// It defines Alarm (a circular geofence with weekdays, a frequency mode and
// an action), MessageAction, the locale-independent Weekday codes, alarm
// validation, and Decide: the pure per-alarm gate that tells the monitor
// whether a poll cycle should fire and what the alarm looks like afterwards.
package alarm
