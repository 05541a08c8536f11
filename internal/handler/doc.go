// Package handler exposes the editor over HTTP.
//
// Every endpoint maps one browser gesture to one service call: creating and
// renaming elements, connecting a two-element selection, overlay actions,
// collapse and format toggles, Turtle import and export, and validation runs.
// Connection rejections come back as 422 with the rejection's severity so the
// UI can pick between blocking dialogs and passing notifications.
//
// Routes are registered in cmd/server using method patterns, with the SSE
// hub on /events and Prometheus metrics on /metrics.
package handler
