// Package calendar provides a client for the Google Calendar API.
//
// The client covers what the calendar assistant needs: listing and creating
// calendars, listing single events in a time window, and creating, updating
// and deleting events. Listing calls follow nextPageToken until the result
// set is exhausted or the caller's MaxResults is reached.
//
// Every call runs inside an OpenTelemetry span, waits on an optional client
// side rate limiter and records Google API metrics.
//
// Example usage:
//
//	client, err := calendar.NewClient(ctx, google.ClientOptions{
//	    CredentialsFile: "credential.json",
//	    TokenFile:       tokenPath,
//	}, calendar.WithRateLimit(5, 10))
//	if err != nil {
//	    return err
//	}
//
//	calendars, err := client.ListCalendars(ctx)
package calendar
