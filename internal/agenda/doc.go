// Package agenda implements the calendar operations the assistant exposes:
// resolving calendar names, listing the events of one day, inserting events
// and updating or deleting events found by title.
//
// The package talks to the remote calendar through the Backend interface,
// which *calendar.Client satisfies. Nothing is stored locally; the optional
// directory cache only maps calendar names to identifiers and is purged
// whenever a calendar is created.
//
// Failures are reported as errors that Classify maps to an Outcome, so a
// title scan that matched nothing can be told apart from one that failed.
package agenda
