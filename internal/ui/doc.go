// Package ui renders alarms and tick summaries for the terminal.
package ui
