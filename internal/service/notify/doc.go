// Package notify shows local notifications for fired alarms.
//
// Desktop shells out to the notification tool of the host OS; Log writes
// the notification to the structured log and is used for headless hosts.
package notify
