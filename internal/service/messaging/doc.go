// Package messaging delivers alarm messages over SMS, e-mail and WhatsApp.
//
// Gateway posts every message to an HTTP endpoint configured per channel;
// Log only records what would have been sent.
package messaging
