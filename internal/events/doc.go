// Package events lets services announce what happened without knowing who
// listens. A service emits an Event through an EventEmitter; registered
// EventHandlers, such as the AMQP publisher, receive it.
package events
