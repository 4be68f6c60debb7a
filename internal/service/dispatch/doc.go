// Package dispatch executes the action of a fired alarm.
//
// Every fire ends with exactly one local notification. Message actions are
// sent one by one in list order; a failed channel is logged and never stops
// the remaining channels or the notification.
package dispatch
