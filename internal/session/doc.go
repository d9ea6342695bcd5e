// Package session owns the client<->controller transport session.
//
// Ownership boundary:
// - websocket transport handle with serialized sends
// - session supervisor and its four tasks (frames, telemetry,
//   dispatch, keepalive)
// - reconnection controller with bounded jittered backoff
//
// One session is one connect-through-disconnect lifecycle. The supervisor
// exclusively owns the transport for the attempt; the first task to exit,
// for any reason, ends the session and the rest are cancelled.
package session
