// Package google loads Google credential material for the Calendar API.
//
// Two credential file shapes are accepted: an installed-application OAuth
// client ("installed" or "web" key) paired with a user token file, and a
// service account key. Token refresh is left to golang.org/x/oauth2.
//
// The token file is written by "tilda auth" and read by FileTokenProvider.
package google
