// Package util holds small helpers shared by the server and CLI: size
// strings for body limits, secret masking for logs and pointer literals.
package util
