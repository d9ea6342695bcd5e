// Package hardware defines the collaborator boundaries the session core
// consumes: camera capture, servo actuation, audio sensing, and host
// metrics. Real drivers live outside this repository; the Sim* types here
// stand in for them and back simulation mode.
//
// Optional capabilities (depth capture, audio) are separate interfaces
// resolved once at wiring time, never probed per call.
package hardware
