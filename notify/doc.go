// Package notify publishes task completion events.
//
// Every task that reaches a terminal state, completed or failed, produces
// one Event on the topic match_updates_<user id>. Broker is the in-process
// implementation used by the service and the CLI; other transports can be
// plugged in through Publisher.
package notify
