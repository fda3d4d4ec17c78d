// Package planner talks to the planning backend that turns a project idea
// into a [blueprint.Blueprint].
//
// The backend is an opaque HTTP JSON service. Every response is wrapped in
// an envelope:
//
//	{"success": true, "message": "...", "data": {...}, "errors": null}
//
// A response with success=false is reported as [ErrUnavailable] carrying the
// server's message. Network failures and 5xx answers are retried with
// exponential backoff; the context bounds the whole call.
//
// Ideas are validated before any request is made, see
// [github.com/matzehuels/blueprint/pkg/errors.ValidateIdea].
//
// [Dialogue] runs the clarifying-question step of interactive planning. It
// walks the backend's questions (or a canned script when the backend cannot
// provide any), collects answers and composes the refined idea that is sent
// with [blueprint.ModeInteractive].
package planner
